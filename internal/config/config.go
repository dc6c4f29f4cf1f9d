package config

import (
	"os"
	"strconv"

	"nullsim/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Engine   EngineConfig
	Data     DataConfig
}

// DatabaseConfig holds database connection settings. The URL is optional:
// without it runs are kept in memory only.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// EngineConfig holds simulation engine settings
type EngineConfig struct {
	DefaultReplicates int
	MaxReplicates     int
	Workers           int
	Alpha             float64
}

// DataConfig holds data source settings
type DataConfig struct {
	File string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Engine: EngineConfig{
			DefaultReplicates: getEnvIntOrDefault("DEFAULT_REPLICATES", 1000),
			MaxReplicates:     getEnvIntOrDefault("MAX_REPLICATES", 100000),
			Workers:           getEnvIntOrDefault("ENGINE_WORKERS", 4),
			Alpha:             getEnvFloatOrDefault("ALPHA", 0.05),
		},
		Data: DataConfig{
			File: getEnvOrDefault("DATA_FILE", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Engine.DefaultReplicates <= 0 {
		return errors.ConfigInvalid("DEFAULT_REPLICATES must be positive")
	}
	if config.Engine.MaxReplicates < config.Engine.DefaultReplicates {
		return errors.ConfigInvalid("MAX_REPLICATES must be at least DEFAULT_REPLICATES")
	}
	if config.Engine.Workers <= 0 {
		return errors.ConfigInvalid("ENGINE_WORKERS must be positive")
	}
	if config.Engine.Alpha <= 0 || config.Engine.Alpha >= 1 {
		return errors.ConfigInvalid("ALPHA must lie strictly between 0 and 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
