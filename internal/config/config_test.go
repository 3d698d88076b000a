package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
max_width: 320
max_height: 240

cache:
  directory: "/var/cache/i2html"
  lifetime_seconds: 3600
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxWidth != 320 {
		t.Errorf("Expected max_width 320, got %d", cfg.MaxWidth)
	}
	if cfg.MaxHeight != 240 {
		t.Errorf("Expected max_height 240, got %d", cfg.MaxHeight)
	}
	if cfg.Cache.Directory != "/var/cache/i2html" {
		t.Errorf("Expected cache directory '/var/cache/i2html', got '%s'", cfg.Cache.Directory)
	}
	if cfg.Cache.LifetimeSeconds != 3600 {
		t.Errorf("Expected lifetime 3600, got %d", cfg.Cache.LifetimeSeconds)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("max_width: 100\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxHeight != 0 {
		t.Errorf("Expected max_height unset, got %d", cfg.MaxHeight)
	}
	if cfg.Cache.LifetimeSeconds != DefaultLifetimeSeconds {
		t.Errorf("Expected default lifetime %d, got %d", DefaultLifetimeSeconds, cfg.Cache.LifetimeSeconds)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: Config{MaxWidth: 100, Cache: CacheConfig{LifetimeSeconds: 60}},
		},
		{
			name:   "zero bounds mean unset and are valid",
			config: Config{Cache: CacheConfig{LifetimeSeconds: 60}},
		},
		{
			name:    "negative max_width",
			config:  Config{MaxWidth: -1, Cache: CacheConfig{LifetimeSeconds: 60}},
			wantErr: true,
		},
		{
			name:    "negative max_height",
			config:  Config{MaxHeight: -5, Cache: CacheConfig{LifetimeSeconds: 60}},
			wantErr: true,
		},
		{
			name:    "zero lifetime",
			config:  Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	explicit := &Config{Cache: CacheConfig{Directory: "/explicit"}}
	if got := explicit.CacheDir("/uploads"); got != "/explicit" {
		t.Errorf("CacheDir = %s, want /explicit", got)
	}

	derived := Default()
	if got := derived.CacheDir("/uploads"); got != filepath.Join("/uploads", "i2html") {
		t.Errorf("CacheDir = %s, want /uploads/i2html", got)
	}
}
