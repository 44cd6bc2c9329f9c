// Package config loads and validates the pipeline configuration from
// environment variables (prefix EDULAKE) with an optional YAML file, and
// resolves the lake-style logical paths for each dataset.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Storage modes supported by the byte store.
const (
	StorageModeLocal = "local"
	StorageModeGCS   = "gcs"
)

// IngestDateFormat is the partition date layout (YYYY-MM-DD).
const IngestDateFormat = "2006-01-02"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"5m" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"20"`
	AllowedOrigins  []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// StorageConfig selects the byte store and its connection parameters.
// Mode "local" resolves logical paths under BaseDir; mode "gcs" reads and
// writes objects in Bucket, prefixed with Prefix when set.
type StorageConfig struct {
	Mode            string `yaml:"mode" envconfig:"MODE" default:"local" validate:"oneof=local gcs"`
	BaseDir         string `yaml:"base_dir" envconfig:"BASE_DIR" default:"data"`
	Bucket          string `yaml:"bucket" envconfig:"BUCKET"`
	Prefix          string `yaml:"prefix" envconfig:"PREFIX"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
}

// PipelineConfig contains per-run pipeline settings
type PipelineConfig struct {
	// IngestDate overrides the run date partition; empty means today.
	IngestDate string `yaml:"ingest_date" envconfig:"INGEST_DATE"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// File first, env on top so environment variables win.
	if path := configFilePath(); path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = *fileCfg
	}

	if err := envconfig.Process("EDULAKE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural constraints and the cross-field rules that
// tags cannot express (GCS mode needs a bucket, ingest date layout).
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Storage.Mode == StorageModeGCS && strings.TrimSpace(c.Storage.Bucket) == "" {
		return fmt.Errorf("storage bucket is required when storage mode is %q", StorageModeGCS)
	}

	if c.Pipeline.IngestDate != "" {
		if _, err := time.Parse(IngestDateFormat, c.Pipeline.IngestDate); err != nil {
			return fmt.Errorf("invalid ingest date %q, expected %s: %w", c.Pipeline.IngestDate, IngestDateFormat, err)
		}
	}

	return nil
}

// ResolveIngestDate returns the configured ingest date, defaulting to today.
func (c *Config) ResolveIngestDate() string {
	if d := strings.TrimSpace(c.Pipeline.IngestDate); d != "" {
		return d
	}
	return time.Now().Format(IngestDateFormat)
}

// loadFromFile loads configuration from YAML file
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configFilePath returns the path to the config file, or "" when only
// environment variables should be used.
func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    5 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    10,
			RateLimitBurst:  20,
			AllowedOrigins:  []string{"http://localhost:8080"},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Storage: StorageConfig{
			Mode:    StorageModeLocal,
			BaseDir: "data",
		},
	}
}
