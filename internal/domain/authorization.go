package domain

import "time"

// AuthorizationRequest is the ephemeral anti-CSRF state issued when an
// authorization URL is built. Single-use, bounded lifetime.
type AuthorizationRequest struct {
	StateToken     string    `json:"state_token"`
	Provider       Provider  `json:"provider"`
	UserID         string    `json:"user_id"`
	RedirectTarget string    `json:"redirect_target,omitempty"`
	IssuedAt       time.Time `json:"issued_at"`
}
