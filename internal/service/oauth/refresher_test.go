package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub-backend/internal/domain"
	"ideahub-backend/internal/metrics"
	"ideahub-backend/internal/service"
	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/logger"
)

func newTestRefresher(t *testing.T, provider ProviderClient, store *memCredentialStore) service.TokenProvider {
	t.Helper()

	log, err := logger.New("error")
	require.NoError(t, err)

	registry := Registry{provider.Name(): provider}
	return NewRefresher(registry, store, metrics.NewCollector(), log)
}

func seedCredential(t *testing.T, store *memCredentialStore, expiresAt time.Time, refreshToken string) {
	t.Helper()

	cred := &domain.Credential{
		UserID:      "user-1",
		Provider:    domain.ProviderGmail,
		AccessToken: "stored-access",
		ExpiresAt:   expiresAt,
	}
	if refreshToken != "" {
		cred.RefreshToken = &refreshToken
	}
	require.NoError(t, store.Replace(context.Background(), cred))
}

func TestGetValidAccessTokenFresh(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeTokenResponse(w, tokenResponse{AccessToken: "refreshed", TokenType: "Bearer", ExpiresIn: 3600})
	}))
	defer srv.Close()

	store := newMemCredentialStore()
	seedCredential(t, store, time.Now().Add(time.Hour), "rt-1")
	refresher := newTestRefresher(t, newFakeProvider(domain.ProviderGmail, srv.URL), store)

	token, err := refresher.GetValidAccessToken(context.Background(), "user-1", domain.ProviderGmail)
	require.NoError(t, err)
	assert.Equal(t, "stored-access", token)
	assert.Equal(t, int64(0), calls.Load(), "fresh token must not hit the provider")
}

func TestGetValidAccessTokenRefreshesNearExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "rt-1", r.Form.Get("refresh_token"))
		writeTokenResponse(w, tokenResponse{AccessToken: "refreshed", TokenType: "Bearer", ExpiresIn: 3600})
	}))
	defer srv.Close()

	store := newMemCredentialStore()
	seedCredential(t, store, time.Now().Add(10*time.Second), "rt-1")
	refresher := newTestRefresher(t, newFakeProvider(domain.ProviderGmail, srv.URL), store)
	ctx := context.Background()

	token, err := refresher.GetValidAccessToken(ctx, "user-1", domain.ProviderGmail)
	require.NoError(t, err)
	assert.Equal(t, "refreshed", token)

	// The refreshed token is persisted, not just returned
	cred, err := store.Get(ctx, "user-1", domain.ProviderGmail)
	require.NoError(t, err)
	assert.Equal(t, "refreshed", cred.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), cred.ExpiresAt, time.Minute)
}

func TestGetValidAccessTokenNoRefreshToken(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	store := newMemCredentialStore()
	seedCredential(t, store, time.Now().Add(-time.Minute), "")
	refresher := newTestRefresher(t, newFakeProvider(domain.ProviderGmail, srv.URL), store)

	_, err := refresher.GetValidAccessToken(context.Background(), "user-1", domain.ProviderGmail)
	assert.True(t, apperrors.IsReauthorizationRequired(err))
	assert.Equal(t, int64(0), calls.Load())
}

func TestGetValidAccessTokenRevokedRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTokenError(w, http.StatusBadRequest, "invalid_grant")
	}))
	defer srv.Close()

	store := newMemCredentialStore()
	seedCredential(t, store, time.Now().Add(-time.Minute), "revoked-rt")
	refresher := newTestRefresher(t, newFakeProvider(domain.ProviderGmail, srv.URL), store)
	ctx := context.Background()

	_, err := refresher.GetValidAccessToken(ctx, "user-1", domain.ProviderGmail)
	assert.True(t, apperrors.IsReauthorizationRequired(err))

	// The credential stays in place so the connection still shows as linked
	cred, err := store.Get(ctx, "user-1", domain.ProviderGmail)
	require.NoError(t, err)
	assert.Equal(t, "stored-access", cred.AccessToken)
}

func TestGetValidAccessTokenProviderOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTokenError(w, http.StatusServiceUnavailable, "temporarily_unavailable")
	}))
	defer srv.Close()

	store := newMemCredentialStore()
	seedCredential(t, store, time.Now().Add(-time.Minute), "rt-1")
	refresher := newTestRefresher(t, newFakeProvider(domain.ProviderGmail, srv.URL), store)

	_, err := refresher.GetValidAccessToken(context.Background(), "user-1", domain.ProviderGmail)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExchangeFailed))
	assert.False(t, apperrors.IsReauthorizationRequired(err))
}

func TestGetValidAccessTokenNoCredential(t *testing.T) {
	refresher := newTestRefresher(t, newFakeProvider(domain.ProviderGmail, "http://provider.example"), newMemCredentialStore())

	_, err := refresher.GetValidAccessToken(context.Background(), "user-1", domain.ProviderGmail)
	assert.True(t, apperrors.IsNotFound(err))
}
