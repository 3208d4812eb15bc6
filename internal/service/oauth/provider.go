package oauth

import (
	"context"

	"golang.org/x/oauth2"

	"ideahub-backend/internal/config"
	"ideahub-backend/internal/domain"
)

// Profile is the provider-specific subject behind a credential
type Profile struct {
	// Identifier is the provider's stable subject, e.g. a Google account
	// id or a LinkedIn person URN.
	Identifier string
	Name       string
}

// ProviderClient abstracts one OAuth provider: its endpoints, scopes and
// profile lookup. Implementations are immutable after construction.
type ProviderClient interface {
	Name() domain.Provider
	OAuthConfig() *oauth2.Config
	FetchProfile(ctx context.Context, ts oauth2.TokenSource) (*Profile, error)
}

// Registry maps provider names to their clients
type Registry map[domain.Provider]ProviderClient

// NewRegistry builds the provider registry from process configuration
func NewRegistry(cfg *config.Config) Registry {
	return Registry{
		domain.ProviderGmail:           NewGmailProvider(cfg.Gmail),
		domain.ProviderGoogleWorkspace: NewGoogleWorkspaceProvider(cfg.GoogleWorkspace),
		domain.ProviderLinkedIn:        NewLinkedInProvider(cfg.LinkedIn),
	}
}

// Lookup returns the client for a provider, or false when unknown
func (r Registry) Lookup(provider domain.Provider) (ProviderClient, bool) {
	p, ok := r[provider]
	return p, ok
}
