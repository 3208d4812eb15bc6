package domain

import "time"

// Credential represents one provider's OAuth grant for one user.
// At most one active credential exists per (user_id, provider) pair.
type Credential struct {
	ID                int64      `json:"id"`
	UserID            string     `json:"user_id"`
	Provider          Provider   `json:"provider"`
	AccessToken       string     `json:"-"`
	RefreshToken      *string    `json:"-"`
	Scopes            []string   `json:"scopes"`
	ExpiresAt         time.Time  `json:"expires_at"`
	ProfileIdentifier string     `json:"profile_identifier"`
	ProfileName       string     `json:"profile_name"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// HasRefreshToken reports whether a refresh token was issued for this grant.
// Some providers omit it on repeat consent.
func (c *Credential) HasRefreshToken() bool {
	return c.RefreshToken != nil && *c.RefreshToken != ""
}

// ExpiresWithin reports whether the access token expires before now+margin
func (c *Credential) ExpiresWithin(margin time.Duration) bool {
	return time.Until(c.ExpiresAt) <= margin
}

// CredentialSummary is the non-secret view of a credential, safe to render
// to the user. Token values are never included.
type CredentialSummary struct {
	Provider           Provider  `json:"provider"`
	ProfileName        string    `json:"profile_name"`
	Scopes             []string  `json:"scopes"`
	ExpiresAt          time.Time `json:"expires_at"`
	RefreshTokenIssued bool      `json:"refresh_token_issued"`
}

// Summary returns the non-secret view of the credential
func (c *Credential) Summary() CredentialSummary {
	return CredentialSummary{
		Provider:           c.Provider,
		ProfileName:        c.ProfileName,
		Scopes:             c.Scopes,
		ExpiresAt:          c.ExpiresAt,
		RefreshTokenIssued: c.HasRefreshToken(),
	}
}
