package repository

import (
	"context"
	"time"

	"ideahub-backend/internal/domain"
)

// CredentialRepository defines the interface for credential storage. The
// store is the single source of truth for tokens; nothing caches them across
// requests.
type CredentialRepository interface {
	// Get retrieves the active credential for (userID, provider).
	// Returns a not_found AppError when no credential exists.
	Get(ctx context.Context, userID string, provider domain.Provider) (*domain.Credential, error)

	// Replace atomically deletes any existing credential for the pair and
	// inserts the new one. Concurrent Replace calls for the same key
	// serialize; a reader never observes a half-written row.
	Replace(ctx context.Context, cred *domain.Credential) error

	// UpdateTokens updates access_token and expires_at in place, leaving
	// refresh_token and all other fields untouched. Returns a not_found
	// AppError if the credential was deleted concurrently.
	UpdateTokens(ctx context.Context, userID string, provider domain.Provider, accessToken string, expiresAt time.Time) error

	// Delete removes the credential for (userID, provider)
	Delete(ctx context.Context, userID string, provider domain.Provider) error
}
