package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ideahub-backend/internal/container"
	"ideahub-backend/internal/domain"
	"ideahub-backend/internal/middleware"
	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/logger"
)

// IntegrationHandler exposes the provider credential lifecycle: starting and
// completing authorization flows, listing connection status and revoking.
type IntegrationHandler struct {
	container *container.Container
	logger    *logger.Logger
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(c *container.Container) *IntegrationHandler {
	return &IntegrationHandler{
		container: c,
		logger:    c.GetLogger(),
	}
}

// AuthorizeResponse is returned when an authorization flow starts
type AuthorizeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// Authorize handles POST /api/integrations/{provider}/authorize
func (h *IntegrationHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	provider, err := domain.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeError(w, apperrors.NewValidationError(err.Error(), nil), h.logger)
		return
	}

	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	authURL, state, aerr := h.container.GetOAuthCoordinator().BeginAuthorization(r.Context(), provider, claims.Sub)
	if aerr != nil {
		writeError(w, aerr, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, AuthorizeResponse{
		AuthorizationURL: authURL,
		State:            state,
	})
}

// Callback handles GET /api/integrations/{provider}/callback. The user's
// identity comes from the consumed state token, not from a bearer token. Only
// the non-secret credential summary is returned; secrets are never rendered.
func (h *IntegrationHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider, err := domain.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeError(w, apperrors.NewValidationError(err.Error(), nil), h.logger)
		return
	}

	query := r.URL.Query()
	if provErr := query.Get("error"); provErr != "" {
		// The provider denied the request (e.g. the user cancelled consent)
		writeError(w, apperrors.NewExchangeFailedError("provider returned an error", nil, map[string]interface{}{
			"error":             provErr,
			"error_description": query.Get("error_description"),
		}), h.logger)
		return
	}

	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		writeError(w, apperrors.NewValidationError("code and state are required", nil), h.logger)
		return
	}

	result, aerr := h.container.GetOAuthCoordinator().CompleteAuthorization(r.Context(), provider, code, state)
	if aerr != nil {
		writeError(w, aerr, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result.Credential.Summary())
}

// IntegrationStatus is one provider's connection state for the current user
type IntegrationStatus struct {
	Provider    domain.Provider `json:"provider"`
	Connected   bool            `json:"connected"`
	ProfileName string          `json:"profile_name,omitempty"`
	ExpiresAt   string          `json:"expires_at,omitempty"`
}

// List handles GET /api/integrations
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	store := h.container.GetCredentialRepository()
	statuses := make([]IntegrationStatus, 0, len(domain.Providers))
	for _, provider := range domain.Providers {
		status := IntegrationStatus{Provider: provider}
		cred, err := store.Get(r.Context(), claims.Sub, provider)
		if err == nil {
			status.Connected = true
			status.ProfileName = cred.ProfileName
			status.ExpiresAt = cred.ExpiresAt.UTC().Format(time.RFC3339)
		} else if !apperrors.IsNotFound(err) {
			writeError(w, err, h.logger)
			return
		}
		statuses = append(statuses, status)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"integrations": statuses})
}

// Disconnect handles DELETE /api/integrations/{provider}
func (h *IntegrationHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	provider, err := domain.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeError(w, apperrors.NewValidationError(err.Error(), nil), h.logger)
		return
	}

	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	if err := h.container.GetCredentialRepository().Delete(r.Context(), claims.Sub, provider); err != nil {
		writeError(w, err, h.logger)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"provider": string(provider),
		"user_id":  claims.Sub,
	}).Info("Credential revoked")

	w.WriteHeader(http.StatusNoContent)
}
