package service

import (
	"context"

	"ideahub-backend/internal/domain"
)

// AuthService validates bearer tokens for REST requests and real-time
// session admission. Both surfaces share the same scheme.
type AuthService interface {
	// ValidateToken validates a bearer token and returns its claims
	ValidateToken(ctx context.Context, token string) (*domain.AuthClaims, error)
}

// AuthorizationResult is the outcome of a completed authorization flow
type AuthorizationResult struct {
	Credential *domain.Credential
	// RefreshTokenIssued is false when the provider omitted the refresh
	// token (repeat consent). The access token is still usable until it
	// expires, so this is a warning condition, not a failure.
	RefreshTokenIssued bool
}

// OAuthCoordinator drives the authorization-code grant for each provider
type OAuthCoordinator interface {
	// BeginAuthorization builds the provider's authorization URL and issues
	// a fresh single-use state token bound to userID.
	BeginAuthorization(ctx context.Context, provider domain.Provider, userID string) (authorizationURL string, state string, err error)

	// CompleteAuthorization validates the state, exchanges the code for
	// tokens and atomically replaces any existing credential for the pair.
	CompleteAuthorization(ctx context.Context, provider domain.Provider, code string, state string) (*AuthorizationResult, error)
}

// TokenProvider hands back a currently-valid access token for a stored
// credential, refreshing transparently when needed. This is the only surface
// application code (Sheets/Gmail/LinkedIn consumers) touches for tokens.
type TokenProvider interface {
	GetValidAccessToken(ctx context.Context, userID string, provider domain.Provider) (string, error)
}

// Notifier fans a reminder event out to the target user's live sessions.
// Returns the number of connections the event was handed to.
type Notifier interface {
	Publish(event domain.NotificationEvent) int
}

// Services aggregates all service interfaces
type Services struct {
	Auth   AuthService
	OAuth  OAuthCoordinator
	Tokens TokenProvider
}
