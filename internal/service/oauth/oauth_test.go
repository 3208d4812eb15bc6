package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"ideahub-backend/internal/domain"
	apperrors "ideahub-backend/pkg/errors"
)

// fakeProvider implements ProviderClient against an httptest token endpoint
type fakeProvider struct {
	name    domain.Provider
	cfg     *oauth2.Config
	profile Profile
	profErr error
}

func newFakeProvider(name domain.Provider, tokenURL string) *fakeProvider {
	return &fakeProvider{
		name: name,
		cfg: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost/callback",
			Scopes:       []string{"scope.a", "scope.b"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   tokenURL + "/authorize",
				TokenURL:  tokenURL + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profile: Profile{Identifier: "subject-1", Name: "Test Person"},
	}
}

func (f *fakeProvider) Name() domain.Provider { return f.name }

func (f *fakeProvider) OAuthConfig() *oauth2.Config { return f.cfg }

func (f *fakeProvider) FetchProfile(ctx context.Context, ts oauth2.TokenSource) (*Profile, error) {
	if f.profErr != nil {
		return nil, f.profErr
	}
	p := f.profile
	return &p, nil
}

// tokenResponse is what the fake token endpoint returns
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

func writeTokenResponse(w http.ResponseWriter, resp tokenResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeTokenError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// memCredentialStore is an in-memory CredentialRepository for tests
type memCredentialStore struct {
	mu    sync.Mutex
	creds map[string]*domain.Credential
}

func newMemCredentialStore() *memCredentialStore {
	return &memCredentialStore{creds: make(map[string]*domain.Credential)}
}

func storeKey(userID string, provider domain.Provider) string {
	return userID + "/" + string(provider)
}

func (m *memCredentialStore) Get(ctx context.Context, userID string, provider domain.Provider) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.creds[storeKey(userID, provider)]
	if !ok {
		return nil, apperrors.NewNotFoundError("no credential")
	}
	c := *cred
	return &c, nil
}

func (m *memCredentialStore) Replace(ctx context.Context, cred *domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cred
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	m.creds[storeKey(cred.UserID, cred.Provider)] = &c
	return nil
}

func (m *memCredentialStore) UpdateTokens(ctx context.Context, userID string, provider domain.Provider, accessToken string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.creds[storeKey(userID, provider)]
	if !ok {
		return apperrors.NewNotFoundError("no credential")
	}
	cred.AccessToken = accessToken
	cred.ExpiresAt = expiresAt
	cred.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memCredentialStore) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, storeKey(userID, provider))
	return nil
}
