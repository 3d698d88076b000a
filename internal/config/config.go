package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultLifetimeSeconds is how long a cache entry stays valid when the
	// configuration does not say otherwise.
	DefaultLifetimeSeconds = 86400

	// cacheSubdir is appended to the host's upload base path when no explicit
	// cache directory is configured.
	cacheSubdir = "i2html"
)

// Config represents the converter configuration.
type Config struct {
	MaxWidth  int         `yaml:"max_width"`
	MaxHeight int         `yaml:"max_height"`
	Cache     CacheConfig `yaml:"cache"`
}

type CacheConfig struct {
	Directory       string `yaml:"directory"`
	LifetimeSeconds int    `yaml:"lifetime_seconds"`
}

// Default returns the configuration used when no config file is given:
// no resize bounds and a one-day entry lifetime.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			LifetimeSeconds: DefaultLifetimeSeconds,
		},
	}
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks bound and lifetime sanity. Zero bounds mean "no bound".
func (c *Config) Validate() error {
	if c.MaxWidth < 0 {
		return fmt.Errorf("max_width must not be negative, got %d", c.MaxWidth)
	}
	if c.MaxHeight < 0 {
		return fmt.Errorf("max_height must not be negative, got %d", c.MaxHeight)
	}
	if c.Cache.LifetimeSeconds <= 0 {
		return fmt.Errorf("cache.lifetime_seconds must be positive, got %d", c.Cache.LifetimeSeconds)
	}
	return nil
}

// CacheDir resolves the cache directory: the configured one if set, otherwise
// a fixed subdirectory of the host-provided upload base path.
func (c *Config) CacheDir(uploadBasePath string) string {
	if c.Cache.Directory != "" {
		return c.Cache.Directory
	}
	return filepath.Join(uploadBasePath, cacheSubdir)
}
