package oauth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"

	"ideahub-backend/internal/domain"
	"ideahub-backend/internal/metrics"
	"ideahub-backend/internal/repository"
	"ideahub-backend/internal/service"
	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/logger"
)

// expiryMargin is the safety window before expiry in which a token is
// treated as stale and refreshed
const expiryMargin = 60 * time.Second

const refreshTimeout = 15 * time.Second

// Refresher implements TokenProvider on top of the credential store. No
// token is cached across calls; the store stays the single source of truth.
type Refresher struct {
	providers Registry
	store     repository.CredentialRepository
	collector *metrics.Collector
	logger    *logger.Logger
}

// NewRefresher creates a new token refresher
func NewRefresher(providers Registry, store repository.CredentialRepository, collector *metrics.Collector, logger *logger.Logger) service.TokenProvider {
	return &Refresher{
		providers: providers,
		store:     store,
		collector: collector,
		logger:    logger,
	}
}

// GetValidAccessToken returns a currently-valid access token for the stored
// credential, refreshing it transparently when expired or near expiry.
func (r *Refresher) GetValidAccessToken(ctx context.Context, userID string, provider domain.Provider) (string, error) {
	cred, err := r.store.Get(ctx, userID, provider)
	if err != nil {
		return "", err
	}

	// Most calls end here with no network I/O
	if !cred.ExpiresWithin(expiryMargin) {
		return cred.AccessToken, nil
	}

	if !cred.HasRefreshToken() {
		return "", apperrors.NewReauthRequiredError("access token expired and no refresh token is available")
	}

	client, ok := r.providers.Lookup(provider)
	if !ok {
		return "", apperrors.NewValidationError("unknown provider", map[string]interface{}{"provider": string(provider)})
	}

	refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	// No lock is held across this call; the store serializes the update below
	ts := client.OAuthConfig().TokenSource(refreshCtx, &oauth2.Token{RefreshToken: *cred.RefreshToken})
	token, err := ts.Token()
	if err != nil {
		r.collector.RecordRefresh(provider, "failure")
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
			// The credential stays in place so the UI can distinguish
			// "needs re-consent" from "never connected"
			r.logger.WithFields(map[string]interface{}{
				"provider": string(provider),
				"user_id":  userID,
			}).Warn("Refresh token rejected by provider")
			return "", apperrors.NewReauthRequiredError("refresh token was rejected; user must re-authorize")
		}
		return "", mapExchangeError(err, "token refresh failed")
	}

	if err := r.store.UpdateTokens(ctx, userID, provider, token.AccessToken, token.Expiry); err != nil {
		r.collector.RecordRefresh(provider, "failure")
		// NotFound here means the user revoked mid-refresh
		return "", err
	}

	r.collector.RecordRefresh(provider, "success")
	r.logger.WithFields(map[string]interface{}{
		"provider": string(provider),
		"user_id":  userID,
	}).Debug("Access token refreshed")

	return token.AccessToken, nil
}
