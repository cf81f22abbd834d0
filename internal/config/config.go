// Package config provides configuration for the application
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers supported by STORAGE_DRIVER
const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
	StorageDriverMemory = "memory"
)

// Output formats supported by OUTPUT_FORMAT
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

const defaultAPIURL = "http://localhost:5000/api"

// Config holds all configuration for the application
type Config struct {
	API       APIConfig
	Storage   StorageConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Output    OutputConfig
}

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig holds durable token storage settings
type StorageConfig struct {
	Driver string
	Path   string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// RateLimitConfig holds client side rate limit settings
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// OutputConfig holds command output settings
type OutputConfig struct {
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{}

	// API configuration
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	u, err := url.Parse(apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API_URL: %q", apiURL)
	}
	cfg.API.BaseURL = strings.TrimRight(apiURL, "/")

	timeoutStr := os.Getenv("HTTP_TIMEOUT")
	if timeoutStr == "" {
		timeoutStr = "0s" // no timeout
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must not be negative")
	}
	cfg.API.Timeout = timeout

	// Storage configuration
	driver := strings.ToLower(os.Getenv("STORAGE_DRIVER"))
	if driver == "" {
		driver = StorageDriverFile
	}
	switch driver {
	case StorageDriverFile, StorageDriverSQLite, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER: %q, must be 'file', 'sqlite' or 'memory'", driver)
	}
	cfg.Storage.Driver = driver

	storagePath := os.Getenv("STORAGE_PATH")
	if storagePath == "" && driver != StorageDriverMemory {
		storagePath, err = defaultStoragePath(driver)
		if err != nil {
			return nil, err
		}
	}
	cfg.Storage.Path = storagePath

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// Rate limit configuration (optional, off by default)
	rpsStr := os.Getenv("RATE_LIMIT_RPS")
	if rpsStr == "" {
		rpsStr = "0"
	}
	rps, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if rps < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	cfg.RateLimit.RPS = rps

	burstStr := os.Getenv("RATE_LIMIT_BURST")
	if burstStr == "" {
		burstStr = "1"
	}
	burst, err := strconv.Atoi(burstStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	if burst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	cfg.RateLimit.Burst = burst

	// Output configuration
	format := strings.ToLower(os.Getenv("OUTPUT_FORMAT"))
	if format == "" {
		format = OutputTable
	}
	if err := ValidateOutputFormat(format); err != nil {
		return nil, err
	}
	cfg.Output.Format = format

	return cfg, nil
}

// ValidateOutputFormat checks that format is one of table, json or yaml
func ValidateOutputFormat(format string) error {
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format: %q, must be 'table', 'json' or 'yaml'", format)
	}
}

// AssetBaseURL returns the backend origin used for relative image paths.
//
// The API base URL usually ends with "/api", uploaded files are served from the origin.
func (c *Config) AssetBaseURL() string {
	return strings.Replace(c.API.BaseURL, "/api", "", 1)
}

func defaultStoragePath(driver string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory for STORAGE_PATH: %w", err)
	}
	name := "storage.yaml"
	if driver == StorageDriverSQLite {
		name = "storage.db"
	}
	return filepath.Join(home, ".petctl", name), nil
}
