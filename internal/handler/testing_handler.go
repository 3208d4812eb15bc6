package handler

import (
	"encoding/json"
	"net/http"

	"ideahub-backend/internal/container"
	"ideahub-backend/internal/domain"
	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/logger"
)

// TestingHandler exposes development-only endpoints for driving the
// notification gateway by hand
type TestingHandler struct {
	container   *container.Container
	environment string
	logger      *logger.Logger
}

// NewTestingHandler creates a new testing handler
func NewTestingHandler(c *container.Container) *TestingHandler {
	return &TestingHandler{
		container:   c,
		environment: c.GetConfig().Environment,
		logger:      c.GetLogger(),
	}
}

// PublishRequest is the body for a manual reminder publish
type PublishRequest struct {
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// PublishNotification handles POST /api/testing/notifications.
// Only available in the development environment.
func (h *TestingHandler) PublishNotification(w http.ResponseWriter, r *http.Request) {
	if h.environment != "development" {
		h.logger.Warn("Attempted to access testing endpoint in non-development environment")
		writeJSON(w, http.StatusForbidden, map[string]string{
			"status":  "error",
			"message": "This endpoint is only available in development environment",
		})
		return
	}

	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, apperrors.NewValidationError("user_id and payload are required", nil), h.logger)
		return
	}

	delivered := h.container.GetHub().Publish(domain.NewReminder(req.UserID, req.Payload))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"delivered": delivered,
	})
}
