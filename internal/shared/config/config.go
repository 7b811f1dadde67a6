package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Config holds process-wide settings. Constructed once at startup and
// passed explicitly to components.
type Config struct {
	FeedsPath        string `koanf:"feeds_path"`
	StatePath        string `koanf:"state_path"`
	PostDelayMs      int    `koanf:"post_delay_ms"`
	FetchTimeoutSec  int    `koanf:"fetch_timeout_sec"`
	SinkTimeoutSec   int    `koanf:"sink_timeout_sec"`
	DefaultMaxPerRun int    `koanf:"default_max_per_run"`
	UserAgent        string `koanf:"user_agent"`
}

// PostDelay is the fixed pause after each successful entry post.
func (c *Config) PostDelay() time.Duration {
	return time.Duration(c.PostDelayMs) * time.Millisecond
}

// FetchTimeout bounds a single feed download.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// SinkTimeout bounds a single webhook post.
func (c *Config) SinkTimeout() time.Duration {
	return time.Duration(c.SinkTimeoutSec) * time.Second
}

// Load reads the optional app config file (yaml/json/toml) and applies
// environment variable overrides. All settings have defaults; the app
// config file itself is optional, unlike the feeds file.
func Load() (*Config, error) {
	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		parser, err := parserForExt(filepath.Ext(configFile))
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	// (HERALD_STATE_PATH -> state_path).
	if err := k.Load(env.Provider("HERALD_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "HERALD_"))
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("feeds_path") {
		k.Set("feeds_path", "feeds.json")
	}
	if !k.Exists("state_path") {
		k.Set("state_path", "state.json")
	}
	if !k.Exists("post_delay_ms") {
		k.Set("post_delay_ms", 1200)
	}
	if !k.Exists("fetch_timeout_sec") {
		k.Set("fetch_timeout_sec", 10)
	}
	if !k.Exists("sink_timeout_sec") {
		k.Set("sink_timeout_sec", 20)
	}
	if !k.Exists("default_max_per_run") {
		k.Set("default_max_per_run", 10)
	}
	if !k.Exists("user_agent") {
		k.Set("user_agent", "herald/1.0 (+https://github.com/herald-rss/herald)")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	return &cfg, nil
}

func parserForExt(ext string) (koanf.Parser, error) {
	switch ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, oops.Errorf("unsupported config file extension: %s", ext)
	}
}
