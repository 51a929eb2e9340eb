package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/newsticker/internal/news"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.Endpoint == "" {
		t.Error("expected a default endpoint")
	}
	if cfg.MaxHeadlines != news.DefaultMaxHeadlines {
		t.Errorf("max_headlines = %d, want %d", cfg.MaxHeadlines, news.DefaultMaxHeadlines)
	}
	if cfg.PriorityTerm != "pafc" {
		t.Errorf("priority_term = %q, want pafc", cfg.PriorityTerm)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("cache.backend = %q, want sqlite", cfg.Cache.Backend)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults do not validate: %v", err)
	}
}

func TestDurations(t *testing.T) {
	cfg := &Config{
		CacheTTL:        "30m",
		RefreshInterval: "2m",
		RequestTimeout:  "10s",
		FrameInterval:   "50ms",
	}
	if d := cfg.CacheTTLDuration(); d != 30*time.Minute {
		t.Errorf("CacheTTLDuration = %v, want 30m", d)
	}
	if d := cfg.RefreshDuration(); d != 2*time.Minute {
		t.Errorf("RefreshDuration = %v, want 2m", d)
	}
	if d := cfg.RequestTimeoutDuration(); d != 10*time.Second {
		t.Errorf("RequestTimeoutDuration = %v, want 10s", d)
	}
	if d := cfg.FrameDuration(); d != 50*time.Millisecond {
		t.Errorf("FrameDuration = %v, want 50ms", d)
	}
}

func TestDurationDefaults(t *testing.T) {
	cfg := &Config{CacheTTL: "invalid", RefreshInterval: "-1m"}
	if d := cfg.CacheTTLDuration(); d != time.Hour {
		t.Errorf("expected 1h default for invalid ttl, got %v", d)
	}
	if d := cfg.RefreshDuration(); d != 5*time.Minute {
		t.Errorf("expected 5m default for negative interval, got %v", d)
	}
	if d := cfg.RequestTimeoutDuration(); d != 30*time.Second {
		t.Errorf("expected 30s default timeout, got %v", d)
	}
	if d := cfg.FrameDuration(); d != 80*time.Millisecond {
		t.Errorf("expected 80ms default frame, got %v", d)
	}
}

func TestRequestTimeoutDisabled(t *testing.T) {
	for _, v := range []string{"0", "none"} {
		cfg := &Config{RequestTimeout: v}
		if d := cfg.RequestTimeoutDuration(); d != 0 {
			t.Errorf("RequestTimeoutDuration(%q) = %v, want 0", v, d)
		}
	}
}

func TestParseDurationDays(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"1d", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"90m", 90 * time.Minute},
		{"", time.Minute},
		{"0d", time.Minute},
		{"abc", time.Minute},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.input, time.Minute); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestService(t *testing.T) {
	cfg := &Config{DefaultService: "Sports"}
	if got := cfg.Service(); got != news.Sports {
		t.Errorf("Service() = %q, want sports", got)
	}
	cfg.DefaultService = ""
	if got := cfg.Service(); got != news.News {
		t.Errorf("Service() = %q, want news for empty value", got)
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{}
	if !strings.HasSuffix(cfg.CachePath(), filepath.Join("newsticker", "newsticker.db")) {
		t.Errorf("unexpected default cache path %q", cfg.CachePath())
	}
	if !strings.HasSuffix(cfg.FallbackBase(), "newsticker") {
		t.Errorf("unexpected default fallback base %q", cfg.FallbackBase())
	}

	cfg.Cache.Path = "/tmp/x.db"
	cfg.Fallback.Base = "https://static.example.com/"
	if cfg.CachePath() != "/tmp/x.db" {
		t.Errorf("configured cache path ignored: %q", cfg.CachePath())
	}
	if cfg.FallbackBase() != "https://static.example.com/" {
		t.Errorf("configured fallback base ignored: %q", cfg.FallbackBase())
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv(EndpointEnv, "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `endpoint: https://api.example.org/ticker
priority_term: leeds
cache:
  backend: memory
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "https://api.example.org/ticker" {
		t.Errorf("expected file endpoint, got %s", cfg.Endpoint)
	}
	if cfg.PriorityTerm != "leeds" {
		t.Errorf("expected priority_term leeds, got %s", cfg.PriorityTerm)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("expected memory backend, got %s", cfg.Cache.Backend)
	}
	// Keys missing from the file keep their defaults
	if cfg.MaxHeadlines != 50 {
		t.Errorf("expected default max_headlines, got %d", cfg.MaxHeadlines)
	}
	if cfg.RefreshInterval != "5m" {
		t.Errorf("expected default refresh_interval, got %s", cfg.RefreshInterval)
	}
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	t.Setenv(EndpointEnv, "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint == "" {
		t.Error("expected default endpoint when config doesn't exist")
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected default config to be written: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EndpointEnv, "http://localhost:8080/headlines")
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "http://localhost:8080/headlines" {
		t.Errorf("expected env endpoint, got %s", cfg.Endpoint)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Setenv(EndpointEnv, "")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("endpoint: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("expected parse error")
	}
}

func validConfig() *Config {
	return &Config{Endpoint: "https://news.example.com/api"}
}

func TestValidateAcceptsMinimal(t *testing.T) {
	if err := validate(validConfig()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing endpoint", func(c *Config) { c.Endpoint = "" }},
		{"ftp endpoint", func(c *Config) { c.Endpoint = "ftp://example.com/" }},
		{"unknown format", func(c *Config) { c.EndpointFormat = "xml" }},
		{"negative max", func(c *Config) { c.MaxHeadlines = -1 }},
		{"unknown service", func(c *Config) { c.DefaultService = "finance" }},
		{"unknown policy", func(c *Config) { c.EmptyPolicy = "drop" }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "etcd" }},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsRedisWithURL(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Backend = "redis"
	cfg.Cache.RedisURL = "redis://localhost:6379/0"
	if err := validate(cfg); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
