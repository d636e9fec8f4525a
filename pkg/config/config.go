// Package config loads the TOML configuration shared by the censorship binaries.
package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"censorship/pkg/censor"
	"censorship/pkg/image"
	"censorship/pkg/text"
)

const (
	DefaultServiceName  = "censorship"
	DefaultHTTPAddr     = ":8055"
	DefaultLogLevel     = "info"
	DefaultTextDatabase = "data/text-censor/censor.txt"
	DefaultMaskChar     = "*"
	DefaultCacheSize    = 1024
)

type Config struct {
	ServiceName string `toml:"serviceName"`
	HTTPAddr    string `toml:"httpAddr"`
	LogLevel    string `toml:"logLevel"`
	// BaseDir resolves relative dictionary file paths.
	BaseDir string `toml:"baseDir"`

	Kafka Kafka `toml:"kafka"`
	Text  Text  `toml:"text"`
	Image Image `toml:"image"`
}

type Kafka struct {
	Addr       string `toml:"addr"`
	LogTopic   string `toml:"logTopic"`
	AuditTopic string `toml:"auditTopic"`
	Batch      int    `toml:"batch"`
}

type Text struct {
	Disabled     bool     `toml:"disabled"`
	TextDatabase []string `toml:"textDatabase"`
	// Words are censored in addition to the ones read from TextDatabase.
	Words         []string `toml:"words"`
	RemoveWords   bool     `toml:"removeWords"`
	CaseMode      string   `toml:"caseMode"`
	MaskChar      string   `toml:"maskChar"`
	RegexPatterns []string `toml:"regexPatterns"`
	// CacheSize bounds the per-snapshot result cache. Zero selects DefaultCacheSize,
	// a negative value disables it.
	CacheSize int   `toml:"cacheSize"`
	Scope     Scope `toml:"scope"`
}

type Image struct {
	Deny        []string `toml:"deny"`
	Replacement string   `toml:"replacement"`
	// DropDenied removes denied images instead of replacing them with text.
	DropDenied bool  `toml:"dropDenied"`
	Scope      Scope `toml:"scope"`
}

// Scope restricts an interceptor to matching sessions. Empty lists match everything.
type Scope struct {
	Platforms []string `toml:"platforms"`
	Guilds    []string `toml:"guilds"`
	Channels  []string `toml:"channels"`
	Users     []string `toml:"users"`
}

// Load decodes the TOML file at path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Text.TextDatabase == nil {
		cfg.Text.TextDatabase = []string{DefaultTextDatabase}
	}
	if cfg.Text.MaskChar == "" {
		cfg.Text.MaskChar = DefaultMaskChar
	}
	if cfg.Text.CacheSize == 0 {
		cfg.Text.CacheSize = DefaultCacheSize
	}
	if cfg.Image.Replacement == "" && !cfg.Image.DropDenied {
		cfg.Image.Replacement = image.DefaultReplacement
	}
}

func (c *Config) Validate() error {
	if _, err := text.ParseCaseMode(c.Text.CaseMode); err != nil {
		return fmt.Errorf("text.caseMode: %w", err)
	}
	if utf8.RuneCountInString(c.Text.MaskChar) != 1 {
		return fmt.Errorf("text.maskChar: want a single character, got %q", c.Text.MaskChar)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("logLevel: want one of debug, info, warn, error")
	}
	return nil
}

// Options converts the text section into filter options over resolved source contents.
func (t Text) Options(contents []string) text.Options {
	mode, _ := text.ParseCaseMode(t.CaseMode)
	mask, _ := utf8.DecodeRuneInString(t.MaskChar)

	policy := text.Policy{Mode: text.Mask, MaskChar: mask}
	if t.RemoveWords {
		policy.Mode = text.Delete
	}

	cacheSize := t.CacheSize
	if cacheSize < 0 {
		cacheSize = 0
	}

	return text.Options{
		Contents:  contents,
		CaseMode:  mode,
		Patterns:  t.RegexPatterns,
		Policy:    policy,
		CacheSize: cacheSize,
	}
}

func (i Image) Options() image.Options {
	opts := image.Options{Deny: i.Deny, Replacement: i.Replacement}
	if i.DropDenied {
		opts.Replacement = ""
	}
	return opts
}

// Scope builds the interceptor scope. Every non-empty list must match.
func (s Scope) Scope() censor.Scope {
	if len(s.Platforms) == 0 && len(s.Guilds) == 0 && len(s.Channels) == 0 && len(s.Users) == 0 {
		return censor.Global
	}
	return censor.All(
		censor.Platforms(s.Platforms...),
		censor.Guilds(s.Guilds...),
		censor.Channels(s.Channels...),
		censor.Users(s.Users...),
	)
}
