package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/logger"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps an error onto the JSON error envelope. Unclassified errors
// become internal errors without leaking detail.
func writeError(w http.ResponseWriter, err error, log *logger.Logger) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.WithError(err).Error("Unhandled error")
		appErr = apperrors.NewInternalError("Internal server error", err)
	} else if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(appErr).Error("Request failed")
	} else {
		log.WithError(appErr).Debug("Request rejected")
	}

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	writeJSON(w, appErr.StatusCode, response)
}
