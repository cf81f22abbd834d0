package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration for integration tests from the .env file or environment variables
// If TEST_API_URL is not set, returns a Config with an empty base URL
// which tells tests to fall back to the in-memory backend
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Storage.Driver = StorageDriverMemory
	cfg.Logging.Level = "debug"
	cfg.RateLimit.Burst = 1
	cfg.Output.Format = OutputTable

	apiURL := os.Getenv("TEST_API_URL")
	if apiURL == "" {
		// Return empty config to allow fallback backend in tests
		return cfg, nil
	}
	cfg.API.BaseURL = strings.TrimRight(apiURL, "/")

	return cfg, nil
}
