package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadRequiresJWTSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadProviderFallbacks(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("GOOGLE_CLIENT_ID", "shared-google-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "shared-google-secret")
	t.Setenv("GMAIL_CLIENT_ID", "gmail-specific-id")
	t.Setenv("LINKEDIN_CLIENT_ID", "linkedin-id")

	cfg, err := Load()
	require.NoError(t, err)

	// A provider-specific value wins over the shared Google credentials
	assert.Equal(t, "gmail-specific-id", cfg.Gmail.ClientID)
	assert.Equal(t, "shared-google-secret", cfg.Gmail.ClientSecret)
	assert.Equal(t, "shared-google-id", cfg.GoogleWorkspace.ClientID)
	assert.Equal(t, "linkedin-id", cfg.LinkedIn.ClientID)
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, parseOrigins("https://a.example, https://b.example"))
	assert.Equal(t, []string{"*"}, parseOrigins("*"))
	assert.Empty(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.example"}, parseOrigins("https://a.example,,"))
}
