package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"

	"ideahub-backend/internal/config"
	"ideahub-backend/internal/domain"
)

const defaultLinkedInUserInfoURL = "https://api.linkedin.com/v2/userinfo"

var linkedinScopes = []string{"openid", "profile", "email", "w_member_social"}

type linkedinProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewLinkedInProvider creates the LinkedIn provider client
func NewLinkedInProvider(pc config.ProviderConfig) ProviderClient {
	return &linkedinProvider{
		cfg: &oauth2.Config{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			RedirectURL:  pc.RedirectURI,
			Scopes:       linkedinScopes,
			Endpoint:     linkedin.Endpoint,
		},
		userInfoURL: defaultLinkedInUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *linkedinProvider) Name() domain.Provider {
	return domain.ProviderLinkedIn
}

func (p *linkedinProvider) OAuthConfig() *oauth2.Config {
	return p.cfg
}

// linkedinUserInfo is the OpenID Connect userinfo response. Sub carries the
// person URN.
type linkedinUserInfo struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

// FetchProfile resolves the LinkedIn member behind the token via the OpenID
// userinfo endpoint
func (p *linkedinProvider) FetchProfile(ctx context.Context, ts oauth2.TokenSource) (*Profile, error) {
	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain token for userinfo: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info linkedinUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	return &Profile{Identifier: info.Sub, Name: info.Name}, nil
}
