package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/matheuskafuri/newsticker/internal/news"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const appName = "newsticker"

// EndpointEnv overrides the configured endpoint when set.
const EndpointEnv = "NEWSTICKER_ENDPOINT"

type FallbackConfig struct {
	Root string `yaml:"root"`
	Base string `yaml:"base"`
}

type CacheConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
}

type Config struct {
	Endpoint        string         `yaml:"endpoint"`
	EndpointFormat  string         `yaml:"endpoint_format"`
	MaxHeadlines    int            `yaml:"max_headlines"`
	PriorityTerm    string         `yaml:"priority_term"`
	CacheTTL        string         `yaml:"cache_ttl"`
	RefreshInterval string         `yaml:"refresh_interval"`
	RequestTimeout  string         `yaml:"request_timeout"`
	DefaultService  string         `yaml:"default_service"`
	EmptyPolicy     string         `yaml:"empty_policy"`
	FrameInterval   string         `yaml:"frame_interval"`
	Fallback        FallbackConfig `yaml:"fallback"`
	Cache           CacheConfig    `yaml:"cache"`
}

func (c *Config) Policy() news.Policy {
	return news.Policy{MaxHeadlines: c.MaxHeadlines, PriorityTerm: c.PriorityTerm}
}

func (c *Config) CacheTTLDuration() time.Duration {
	return parseDuration(c.CacheTTL, time.Hour)
}

func (c *Config) RefreshDuration() time.Duration {
	return parseDuration(c.RefreshInterval, 5*time.Minute)
}

// RequestTimeoutDuration returns 0 (no client timeout) for "0" or "none".
func (c *Config) RequestTimeoutDuration() time.Duration {
	if c.RequestTimeout == "0" || c.RequestTimeout == "none" {
		return 0
	}
	return parseDuration(c.RequestTimeout, 30*time.Second)
}

func (c *Config) FrameDuration() time.Duration {
	return parseDuration(c.FrameInterval, 80*time.Millisecond)
}

func (c *Config) Service() news.Service {
	svc, err := news.ParseService(c.DefaultService)
	if err != nil {
		return news.DefaultService
	}
	return svc
}

// FallbackBase returns the configured base, or the XDG data directory.
func (c *Config) FallbackBase() string {
	if c.Fallback.Base != "" {
		return c.Fallback.Base
	}
	return filepath.Join(xdg.DataHome, appName)
}

func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return CachePath()
}

// parseDuration accepts Go durations plus an "Nd" day suffix.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, appName, appName+".db")
}

func LogDir() string {
	return filepath.Join(xdg.StateHome, appName)
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads path (or the default location) over the embedded defaults, so
// keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Non-fatal: the embedded defaults are enough to run.
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EndpointEnv); v != "" {
		cfg.Endpoint = v
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint scheme must be http or https, got %q", u.Scheme)
	}

	switch cfg.EndpointFormat {
	case "", "json", "rss":
	default:
		return fmt.Errorf("unknown endpoint_format %q (valid: json, rss)", cfg.EndpointFormat)
	}

	if cfg.MaxHeadlines < 0 {
		return fmt.Errorf("max_headlines must not be negative, got %d", cfg.MaxHeadlines)
	}

	if cfg.DefaultService != "" {
		if _, err := news.ParseService(cfg.DefaultService); err != nil {
			return fmt.Errorf("default_service: %w", err)
		}
	}

	switch cfg.EmptyPolicy {
	case "", "keep", "clear":
	default:
		return fmt.Errorf("unknown empty_policy %q (valid: keep, clear)", cfg.EmptyPolicy)
	}

	switch cfg.Cache.Backend {
	case "", "sqlite", "memory":
	case "redis":
		if cfg.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q (valid: sqlite, redis, memory)", cfg.Cache.Backend)
	}
	return nil
}
