// Package common provides shared utilities for finsim
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for finsim
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Reports     ReportsConfig `toml:"reports"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects and configures the report archive backend.
type StorageConfig struct {
	Backend string            `toml:"backend"` // "file" or "s3"
	File    FileStorageConfig `toml:"file"`
	S3      S3Config          `toml:"s3"`
}

// FileStorageConfig holds the local archive location.
type FileStorageConfig struct {
	Path string `toml:"path"`
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Bucket       string `toml:"bucket"`
	Prefix       string `toml:"prefix"`   // Optional key prefix within bucket
	Region       string `toml:"region"`   // AWS region (e.g., "us-east-1")
	Endpoint     string `toml:"endpoint"` // Custom endpoint for S3-compatible stores (MinIO, R2)
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UsePathStyle bool   `toml:"use_path_style"`
}

// Address returns a display form of the configured archive location.
func (s StorageConfig) Address() string {
	if strings.EqualFold(s.Backend, "s3") {
		return "s3://" + strings.TrimSuffix(s.S3.Bucket+"/"+s.S3.Prefix, "/")
	}
	return "file://" + s.File.Path
}

// ClientsConfig holds outbound client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
	SMTP   SMTPConfig   `toml:"smtp"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	RateLimit int    `toml:"rate_limit"` // requests per minute
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// SMTPConfig holds outbound mail configuration.
type SMTPConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	From      string `toml:"from"`
	FromName  string `toml:"from_name"`
	TLSPolicy string `toml:"tls_policy"` // "mandatory", "opportunistic" or "none"
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *SMTPConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Enabled reports whether enough is configured to attempt delivery.
func (c *SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// ReportsConfig holds report rendering and archive retention settings.
type ReportsConfig struct {
	Author            string `toml:"author"`
	Retention         string `toml:"retention"`          // duration string, default "720h"
	RetentionSchedule string `toml:"retention_schedule"` // cron spec, default "@hourly"
}

// GetRetention parses and returns the archive retention period.
func (c *ReportsConfig) GetRetention() time.Duration {
	d, err := time.ParseDuration(c.Retention)
	if err != nil || d <= 0 {
		return 30 * 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`  // "json" or "console"
	Outputs  []string `toml:"outputs"` // "console", "stdout", "file"
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend: "file",
			File:    FileStorageConfig{Path: "data/reports"},
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model:     "gemini-2.0-flash",
				RateLimit: 10,
				Timeout:   "60s",
			},
			SMTP: SMTPConfig{
				Port:      587,
				FromName:  "Financial Simulator",
				TLSPolicy: "mandatory",
				Timeout:   "30s",
			},
		},
		Reports: ReportsConfig{
			Author:            "Financial Simulator",
			Retention:         "720h",
			RetentionSchedule: "@hourly",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/finsim.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	normalizeStorage(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINSIM_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINSIM_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINSIM_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINSIM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FINSIM_DATA_PATH"); path != "" {
		config.Storage.File.Path = filepath.Join(path, "reports")
	}

	if backend := os.Getenv("FINSIM_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if v := os.Getenv("FINSIM_S3_BUCKET"); v != "" {
		config.Storage.S3.Bucket = v
	}
	if v := os.Getenv("FINSIM_S3_ENDPOINT"); v != "" {
		config.Storage.S3.Endpoint = v
	}

	// SMTP overrides
	if v := os.Getenv("FINSIM_SMTP_HOST"); v != "" {
		config.Clients.SMTP.Host = v
	}
	if v := os.Getenv("FINSIM_SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Clients.SMTP.Port = p
		}
	}
	if v := os.Getenv("FINSIM_SMTP_USERNAME"); v != "" {
		config.Clients.SMTP.Username = v
	}
	if v := os.Getenv("FINSIM_SMTP_PASSWORD"); v != "" {
		config.Clients.SMTP.Password = v
	}
	if v := os.Getenv("FINSIM_SMTP_FROM"); v != "" {
		config.Clients.SMTP.From = v
	}

	if key, err := ResolveAPIKey("gemini_api_key", ""); err == nil {
		config.Clients.Gemini.APIKey = key
	}
}

func normalizeStorage(config *Config) {
	backend := strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	if backend != "s3" {
		backend = "file"
	}
	config.Storage.Backend = backend
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment or fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"GEMINI_API_KEY", "FINSIM_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment", name)
}
