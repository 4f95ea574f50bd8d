// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"ecommerce-analytics/internal/logging"
)

// EnvPrefix is the prefix for environment variable overrides (ECOM_*)
const EnvPrefix = "ECOM"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Data contains data directory configuration
	Data DataConfig `json:"data"`

	// Generator contains synthetic data generation settings
	Generator GeneratorConfig `json:"generator"`

	// Normalize contains normalization settings
	Normalize NormalizeConfig `json:"normalize"`

	// Export contains export configuration
	Export ExportConfig `json:"export"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// DataConfig contains data directory settings
type DataConfig struct {
	// RawDir is where generated and downloaded data lands
	RawDir string `json:"raw_dir"`

	// ProcessedDir is where normalized data is saved
	ProcessedDir string `json:"processed_dir"`
}

// GeneratorConfig contains synthetic data generation settings
type GeneratorConfig struct {
	// DefaultSalesCount is used when a non-positive count is requested
	DefaultSalesCount int `json:"default_sales_count"`

	// DefaultCustomerCount is used when a non-positive count is requested
	DefaultCustomerCount int `json:"default_customer_count"`

	// RangeDays is the default trailing window when no dates are given
	RangeDays int `json:"range_days"`
}

// NormalizeConfig contains normalization settings
type NormalizeConfig struct {
	// AnomalyThreshold is the multiplicative bound for implausible totals.
	// A stored total exceeding max(price)*max(quantity)*threshold causes
	// the whole total column to be recomputed.
	AnomalyThreshold float64 `json:"anomaly_threshold"`
}

// ExportConfig contains export-related settings
type ExportConfig struct {
	// Dir is the export output directory
	Dir string `json:"dir"`

	// Format is the default export format (csv, xlsx)
	Format string `json:"format"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Data: DataConfig{
			RawDir:       filepath.Join("data", "raw"),
			ProcessedDir: filepath.Join("data", "processed"),
		},
		Generator: GeneratorConfig{
			DefaultSalesCount:    1000,
			DefaultCustomerCount: 500,
			RangeDays:            365,
		},
		Normalize: NormalizeConfig{
			AnomalyThreshold: 2.0,
		},
		Export: ExportConfig{
			Dir:    filepath.Join("data", "exports"),
			Format: "csv",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, applying environment overrides.
// A missing file is not an error; defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays ECOM_* environment variables on the configuration
func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.BindEnv("raw_dir")
	v.BindEnv("processed_dir")
	v.BindEnv("export_dir")
	v.BindEnv("export_format")
	v.BindEnv("anomaly_threshold")
	v.BindEnv("log_level")

	if v.IsSet("raw_dir") {
		cfg.Data.RawDir = v.GetString("raw_dir")
	}
	if v.IsSet("processed_dir") {
		cfg.Data.ProcessedDir = v.GetString("processed_dir")
	}
	if v.IsSet("export_dir") {
		cfg.Export.Dir = v.GetString("export_dir")
	}
	if v.IsSet("export_format") {
		cfg.Export.Format = v.GetString("export_format")
	}
	if v.IsSet("anomaly_threshold") {
		if t := v.GetFloat64("anomaly_threshold"); t > 0 {
			cfg.Normalize.AnomalyThreshold = t
		}
	}
	if v.IsSet("log_level") {
		cfg.Logging.Level = v.GetString("log_level")
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
