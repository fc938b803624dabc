package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API  APIConfig
	Auth AuthConfig
	App  AppConfig
}

// APIConfig holds backend connection configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuthConfig holds the credentials used for the login call
type AuthConfig struct {
	Email    string
	Password string
}

// AppConfig holds application configuration
type AppConfig struct {
	Env          string
	LogLevel     string
	TickInterval time.Duration
	KeymapPath   string
}

func Load() (*Config, error) {
	// A missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	config := &Config{}

	timeout, err := time.ParseDuration(getEnv("API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}

	config.API = APIConfig{
		BaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout: timeout,
	}

	config.Auth = AuthConfig{
		Email:    getEnv("HRIS_EMAIL", ""),
		Password: getEnv("HRIS_PASSWORD", ""),
	}

	tick, err := time.ParseDuration(getEnv("TICK_INTERVAL", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_INTERVAL: %w", err)
	}

	config.App = AppConfig{
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		TickInterval: tick,
		KeymapPath:   getEnv("KEYMAP_PATH", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.Auth.Email == "" {
		return fmt.Errorf("HRIS_EMAIL is required")
	}
	if c.Auth.Password == "" {
		return fmt.Errorf("HRIS_PASSWORD is required")
	}
	if c.App.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
