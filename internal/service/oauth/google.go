package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"ideahub-backend/internal/config"
	"ideahub-backend/internal/domain"
)

var gmailScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

var workspaceScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// googleProvider serves both Google-backed providers; they differ only in
// scopes and OAuth client settings.
type googleProvider struct {
	name domain.Provider
	cfg  *oauth2.Config
}

// NewGmailProvider creates the Gmail provider client
func NewGmailProvider(pc config.ProviderConfig) ProviderClient {
	return newGoogleProvider(domain.ProviderGmail, pc, gmailScopes)
}

// NewGoogleWorkspaceProvider creates the Google Workspace (Sheets/Drive)
// provider client
func NewGoogleWorkspaceProvider(pc config.ProviderConfig) ProviderClient {
	return newGoogleProvider(domain.ProviderGoogleWorkspace, pc, workspaceScopes)
}

func newGoogleProvider(name domain.Provider, pc config.ProviderConfig, scopes []string) *googleProvider {
	return &googleProvider{
		name: name,
		cfg: &oauth2.Config{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			RedirectURL:  pc.RedirectURI,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleProvider) Name() domain.Provider {
	return p.name
}

func (p *googleProvider) OAuthConfig() *oauth2.Config {
	return p.cfg
}

// FetchProfile resolves the Google account behind the token via the
// userinfo service
func (p *googleProvider) FetchProfile(ctx context.Context, ts oauth2.TokenSource) (*Profile, error) {
	svc, err := goauth2.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	identifier := info.Id
	if identifier == "" {
		identifier = info.Email
	}

	return &Profile{Identifier: identifier, Name: info.Name}, nil
}
