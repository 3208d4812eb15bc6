package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasRefreshToken(t *testing.T) {
	empty := ""
	rt := "refresh-1"

	assert.False(t, (&Credential{}).HasRefreshToken())
	assert.False(t, (&Credential{RefreshToken: &empty}).HasRefreshToken())
	assert.True(t, (&Credential{RefreshToken: &rt}).HasRefreshToken())
}

func TestExpiresWithin(t *testing.T) {
	cred := &Credential{ExpiresAt: time.Now().Add(30 * time.Second)}

	assert.True(t, cred.ExpiresWithin(time.Minute))
	assert.False(t, cred.ExpiresWithin(10*time.Second))

	expired := &Credential{ExpiresAt: time.Now().Add(-time.Hour)}
	assert.True(t, expired.ExpiresWithin(0))
}

func TestSummaryOmitsSecrets(t *testing.T) {
	rt := "refresh-1"
	cred := &Credential{
		UserID:       "user-1",
		Provider:     ProviderGmail,
		AccessToken:  "secret-access",
		RefreshToken: &rt,
		Scopes:       []string{"scope.a"},
		ExpiresAt:    time.Now().Add(time.Hour),
		ProfileName:  "Test Person",
	}

	summary := cred.Summary()
	assert.True(t, summary.RefreshTokenIssued)
	assert.Equal(t, "Test Person", summary.ProfileName)

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-access")
	assert.NotContains(t, string(data), "refresh-1")
}

func TestCredentialJSONOmitsSecrets(t *testing.T) {
	rt := "refresh-1"
	cred := &Credential{AccessToken: "secret-access", RefreshToken: &rt}

	data, err := json.Marshal(cred)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-access")
	assert.NotContains(t, string(data), "refresh-1")
}
