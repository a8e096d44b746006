package config

import (
	"os"
	"path/filepath"
	"strconv"

	"winesense/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Artifacts ArtifactConfig
	Database  DatabaseConfig
	Paths     PathConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ArtifactConfig locates the serialized scaler and classifier
type ArtifactConfig struct {
	Dir            string
	ScalerFile     string
	ClassifierFile string
}

// DatabaseConfig holds prediction-history database settings.
// An empty URL disables history persistence.
type DatabaseConfig struct {
	URL string
}

// PathConfig holds file system paths
type PathConfig struct {
	ModelCard string
}

// ScalerPath returns the full path to the scaler artifact
func (a ArtifactConfig) ScalerPath() string {
	return filepath.Join(a.Dir, a.ScalerFile)
}

// ClassifierPath returns the full path to the classifier artifact
func (a ArtifactConfig) ClassifierPath() string {
	return filepath.Join(a.Dir, a.ClassifierFile)
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Artifacts: ArtifactConfig{
			Dir:            getEnvOrDefault("ARTIFACT_DIR", "./artifacts"),
			ScalerFile:     getEnvOrDefault("SCALER_FILE", "scaler.json"),
			ClassifierFile: getEnvOrDefault("MODEL_FILE", "model.json"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Paths: PathConfig{
			ModelCard: getEnvOrDefault("MODEL_CARD", "./docs/model_card.md"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Artifacts.Dir == "" {
		return errors.ConfigInvalid("ARTIFACT_DIR is required")
	}
	if config.Artifacts.ScalerFile == "" {
		return errors.ConfigInvalid("SCALER_FILE must not be empty")
	}
	if config.Artifacts.ClassifierFile == "" {
		return errors.ConfigInvalid("MODEL_FILE must not be empty")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
