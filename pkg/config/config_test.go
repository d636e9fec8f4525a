package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"censorship/pkg/censor"
	"censorship/pkg/image"
	"censorship/pkg/text"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServiceName != DefaultServiceName {
		t.Errorf("want service name %q, got %q", DefaultServiceName, cfg.ServiceName)
	}
	if cfg.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("want http addr %q, got %q", DefaultHTTPAddr, cfg.HTTPAddr)
	}
	if !reflect.DeepEqual(cfg.Text.TextDatabase, []string{DefaultTextDatabase}) {
		t.Errorf("want default text database, got %v", cfg.Text.TextDatabase)
	}
	if cfg.Text.MaskChar != "*" {
		t.Errorf("want mask char %q, got %q", "*", cfg.Text.MaskChar)
	}
	if cfg.Image.Replacement != image.DefaultReplacement {
		t.Errorf("want image replacement %q, got %q", image.DefaultReplacement, cfg.Image.Replacement)
	}
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
serviceName = "censor-test"
httpAddr = ":9000"
logLevel = "debug"

[kafka]
addr = "localhost:9092"
logTopic = "logs"
auditTopic = "censor-audit"

[text]
textDatabase = ["a.txt", "b.txt"]
words = ["spoiler", "leak"]
removeWords = true
caseMode = "lower"
maskChar = "#"
regexPatterns = ['\d{3}-\d{4}']
cacheSize = -1

[text.scope]
platforms = ["discord"]

[image]
deny = ['\.gif$']
dropDenied = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Kafka.AuditTopic != "censor-audit" {
		t.Errorf("want audit topic %q, got %q", "censor-audit", cfg.Kafka.AuditTopic)
	}
	if wantWords := []string{"spoiler", "leak"}; !reflect.DeepEqual(cfg.Text.Words, wantWords) {
		t.Errorf("want inline words %v, got %v", wantWords, cfg.Text.Words)
	}

	opts := cfg.Text.Options([]string{"hello"})
	want := text.Options{
		Contents:  []string{"hello"},
		CaseMode:  text.CaseLower,
		Patterns:  []string{`\d{3}-\d{4}`},
		Policy:    text.Policy{Mode: text.Delete, MaskChar: '#'},
		CacheSize: 0,
	}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("want options %+v, got %+v", want, opts)
	}

	if got := cfg.Image.Options(); got.Replacement != "" {
		t.Errorf("want denied images dropped, got replacement %q", got.Replacement)
	}

	scope := cfg.Text.Scope.Scope()
	if !scope(&censor.Session{Platform: "discord"}) {
		t.Error("want scope to accept discord session")
	}
	if scope(&censor.Session{Platform: "telegram"}) {
		t.Error("want scope to reject telegram session")
	}
	if cfg.Image.Scope.Scope() != nil {
		t.Error("want global scope for image section")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad case mode", "[text]\ncaseMode = \"title\"\n"},
		{"multi-char mask", "[text]\nmaskChar = \"**\"\n"},
		{"bad log level", "logLevel = \"trace\"\n"},
		{"bad toml", "serviceName = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}
