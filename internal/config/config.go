package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ProviderConfig holds the OAuth client settings for one provider. Built once
// at startup and treated as immutable for the process lifetime.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string

	Gmail           ProviderConfig
	GoogleWorkspace ProviderConfig
	LinkedIn        ProviderConfig
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		Gmail: ProviderConfig{
			ClientID:     getEnv("GMAIL_CLIENT_ID", getEnv("GOOGLE_CLIENT_ID", "")),
			ClientSecret: getEnv("GMAIL_CLIENT_SECRET", getEnv("GOOGLE_CLIENT_SECRET", "")),
			RedirectURI:  getEnv("GMAIL_REDIRECT_URI", ""),
		},
		GoogleWorkspace: ProviderConfig{
			ClientID:     getEnv("WORKSPACE_CLIENT_ID", getEnv("GOOGLE_CLIENT_ID", "")),
			ClientSecret: getEnv("WORKSPACE_CLIENT_SECRET", getEnv("GOOGLE_CLIENT_SECRET", "")),
			RedirectURI:  getEnv("WORKSPACE_REDIRECT_URI", ""),
		},
		LinkedIn: ProviderConfig{
			ClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("LINKEDIN_REDIRECT_URI", ""),
		},
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// IsDevelopment reports whether the process runs in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
