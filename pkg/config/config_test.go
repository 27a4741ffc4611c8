package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DatabasePath == "" {
		t.Error("expected a non-empty default database path")
	}
	if cfg.Retrieval.SimilarityThreshold != 0.3 {
		t.Errorf("expected default similarity threshold 0.3, got %v", cfg.Retrieval.SimilarityThreshold)
	}
	if !cfg.Consolidation.Enabled {
		t.Error("expected consolidation enabled by default")
	}
	if cfg.Consolidation.MergeSimilarityThreshold != 0.85 {
		t.Errorf("expected default merge threshold 0.85, got %v", cfg.Consolidation.MergeSimilarityThreshold)
	}
	if !cfg.Decay.Enabled {
		t.Error("expected decay enabled by default")
	}
	if !cfg.RestAPI.Enabled || cfg.RestAPI.Port != 7077 {
		t.Errorf("expected REST API enabled on port 7077, got enabled=%v port=%d", cfg.RestAPI.Enabled, cfg.RestAPI.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		expectErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }, true},
		{"invalid default limit", func(c *Config) { c.Retrieval.DefaultLimit = 0 }, true},
		{"out-of-range similarity threshold", func(c *Config) { c.Retrieval.SimilarityThreshold = 1.5 }, true},
		{"out-of-range merge threshold", func(c *Config) { c.Consolidation.MergeSimilarityThreshold = -0.1 }, true},
		{"non-positive half life", func(c *Config) { c.Decay.HalfLifeDays = 0 }, true},
		{"invalid port", func(c *Config) { c.RestAPI.Port = 99999 }, true},
		{"invalid logging level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestLoadNoFileFallsBackToDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd) //nolint:errcheck
	_ = os.Chdir(tmpDir)

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error with missing config, got: %v", err)
	}
	if cfg.RestAPI.Port != 7077 {
		t.Errorf("expected default port 7077, got %d", cfg.RestAPI.Port)
	}
}

func TestLoadWithExplicitFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
database_path: /tmp/custom.db
retrieval:
  default_limit: 25
  similarity_threshold: 0.5
rest_api:
  enabled: true
  port: 9000
  host: 127.0.0.1
  cors: false
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DatabasePath != "/tmp/custom.db" {
		t.Errorf("expected database_path override, got %q", cfg.DatabasePath)
	}
	if cfg.RestAPI.Port != 9000 {
		t.Errorf("expected port override 9000, got %d", cfg.RestAPI.Port)
	}
	if cfg.Retrieval.DefaultLimit != 25 {
		t.Errorf("expected default_limit override 25, got %d", cfg.Retrieval.DefaultLimit)
	}
}
