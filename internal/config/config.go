package config

import (
	"fmt"
	"os"
)

// Environment variable names read at process start.
const (
	EnvDBFile       = "EXPENSE_DB_FILE"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGeminiModel  = "GEMINI_MODEL"
	EnvJWTSecret    = "EXPENSE_JWT_SECRET"
	EnvPort         = "PORT"
)

const defaultPort = "8080"

// Config is the externalized configuration surface. Absence of a required
// value is a fatal startup condition.
type Config struct {
	DBFile       string
	GeminiAPIKey string
	GeminiModel  string
	JWTSecret    string
	Port         string
}

// Load reads configuration from the environment. extraction and api control
// whether the completion-service and HTTP-session values are required, so
// tools like migrate can run with only the database configured.
func Load(extraction, api bool) (*Config, error) {
	cfg := &Config{
		DBFile:       os.Getenv(EnvDBFile),
		GeminiAPIKey: os.Getenv(EnvGeminiAPIKey),
		GeminiModel:  os.Getenv(EnvGeminiModel),
		JWTSecret:    os.Getenv(EnvJWTSecret),
		Port:         os.Getenv(EnvPort),
	}

	if cfg.DBFile == "" {
		return nil, fmt.Errorf("config: %s is required", EnvDBFile)
	}
	if extraction && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("config: %s is required", EnvGeminiAPIKey)
	}
	if api && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: %s is required", EnvJWTSecret)
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	return cfg, nil
}
