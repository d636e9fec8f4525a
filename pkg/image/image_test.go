package image

import (
	"context"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"

	"censorship/pkg/censor"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.PanicLevel)
	exitCode := m.Run()
	os.Exit(exitCode)
}

func TestFilter_Denied(t *testing.T) {
	f := NewFilter(Options{Deny: []string{`\.gif$`, `^https?://bad\.example/`, `(`}})

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/cat.gif", true},
		{"http://bad.example/cat.png", true},
		{"https://example.com/cat.png", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := f.Denied(tt.url); got != tt.want {
			t.Errorf("%q: want %v, got %v", tt.url, tt.want, got)
		}
	}

	diags := f.Diagnostics()
	if len(diags) != 3 || diags[2].OK() {
		t.Errorf("want invalid third pattern reported, got %+v", diags)
	}
}

func TestFilter_Rules(t *testing.T) {
	content := `look <image url="a.gif"/> and <image url="b.png"/>`

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"replace", Options{Deny: []string{`\.gif$`}, Replacement: DefaultReplacement}, `look detected_unsafe_images and <image url="b.png"/>`},
		{"drop", Options{Deny: []string{`\.gif$`}}, `look  and <image url="b.png"/>`},
		{"nothing denied", Options{}, content},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := censor.New()
			c.Intercept("image", NewFilter(tt.opts).Rules(), censor.Global)

			got, err := c.TransformString(context.Background(), content, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}
