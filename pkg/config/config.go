package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	DatabasePath          string               `mapstructure:"database_path"`
	Retrieval             RetrievalConfig      `mapstructure:"retrieval"`
	Consolidation         ConsolidationConfig  `mapstructure:"consolidation"`
	Decay                 DecayConfig          `mapstructure:"decay"`
	ImportanceCalculation ImportanceCalcConfig `mapstructure:"importance_calculation"`
	Logging               LoggingConfig        `mapstructure:"logging"`
	RestAPI               RestAPIConfig        `mapstructure:"rest_api"`
}

// RetrievalConfig holds retrieval-engine tuning knobs.
type RetrievalConfig struct {
	DefaultLimit        int     `mapstructure:"default_limit"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

// ConsolidationConfig controls the consolidation pass.
type ConsolidationConfig struct {
	Enabled                  bool    `mapstructure:"enabled"`
	MergeSimilarityThreshold float64 `mapstructure:"merge_similarity_threshold"`
}

// DecayConfig controls temporal decay applied at ranking time.
type DecayConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DecayRate    float64 `mapstructure:"decay_rate"`
	HalfLifeDays float64 `mapstructure:"half_life_days"`
}

// ImportanceCalcConfig controls retrieval-boost weighting.
type ImportanceCalcConfig struct {
	RetrievalBoostFactor float64 `mapstructure:"retrieval_boost_factor"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RestAPIConfig holds REST transport configuration.
type RestAPIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	CORS    bool   `mapstructure:"cors"`
}

// DefaultConfig returns configuration with the spec-documented defaults.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: "memory_database.db",
		Retrieval: RetrievalConfig{
			DefaultLimit:        50,
			SimilarityThreshold: 0.3,
		},
		Consolidation: ConsolidationConfig{
			Enabled:                  true,
			MergeSimilarityThreshold: 0.85,
		},
		Decay: DecayConfig{
			Enabled:      true,
			DecayRate:    0.1,
			HalfLifeDays: 30,
		},
		ImportanceCalculation: ImportanceCalcConfig{
			RetrievalBoostFactor: 0.05,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		RestAPI: RestAPIConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    7077,
			CORS:    true,
		},
	}
}

// Load loads configuration from a YAML file with fallback to defaults.
// A non-empty path is the only file read. With an empty path, config.yaml
// is searched in ./, ~/.agentmemory/ and /etc/agentmemory/, in that order.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".agentmemory"))
		}
		v.AddConfigPath("/etc/agentmemory")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("database_path", d.DatabasePath)
	v.SetDefault("retrieval.default_limit", d.Retrieval.DefaultLimit)
	v.SetDefault("retrieval.similarity_threshold", d.Retrieval.SimilarityThreshold)
	v.SetDefault("consolidation.enabled", d.Consolidation.Enabled)
	v.SetDefault("consolidation.merge_similarity_threshold", d.Consolidation.MergeSimilarityThreshold)
	v.SetDefault("decay.enabled", d.Decay.Enabled)
	v.SetDefault("decay.decay_rate", d.Decay.DecayRate)
	v.SetDefault("decay.half_life_days", d.Decay.HalfLifeDays)
	v.SetDefault("importance_calculation.retrieval_boost_factor", d.ImportanceCalculation.RetrievalBoostFactor)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("rest_api.enabled", d.RestAPI.Enabled)
	v.SetDefault("rest_api.host", d.RestAPI.Host)
	v.SetDefault("rest_api.port", d.RestAPI.Port)
	v.SetDefault("rest_api.cors", d.RestAPI.CORS)
}

// Validate checks configuration for internally-inconsistent values that
// would make the store or transport unusable. Keys absent from the file
// take their defaults, but a malformed key is not replaced by its
// default: a value that cannot be decoded into its field, or one that
// Validate rejects, makes Load return an error.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.Retrieval.DefaultLimit <= 0 {
		return fmt.Errorf("retrieval.default_limit must be > 0")
	}
	if c.Retrieval.SimilarityThreshold < 0 || c.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("retrieval.similarity_threshold must be between 0 and 1")
	}
	if c.Consolidation.MergeSimilarityThreshold < 0 || c.Consolidation.MergeSimilarityThreshold > 1 {
		return fmt.Errorf("consolidation.merge_similarity_threshold must be between 0 and 1")
	}
	if c.Decay.HalfLifeDays <= 0 {
		return fmt.Errorf("decay.half_life_days must be > 0")
	}
	if c.RestAPI.Enabled && (c.RestAPI.Port < 1 || c.RestAPI.Port > 65535) {
		return fmt.Errorf("rest_api.port must be between 1 and 65535")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	return nil
}
