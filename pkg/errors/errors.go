package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of application errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeInternal       ErrorType = "internal"

	// OAuth lifecycle errors
	ErrorTypeInvalidState   ErrorType = "invalid_state"
	ErrorTypeCodeExpired    ErrorType = "code_expired_or_reused"
	ErrorTypeExchangeFailed ErrorType = "provider_exchange_failed"
	ErrorTypeReauthRequired ErrorType = "reauthorization_required"

	// Real-time channel errors
	ErrorTypeConnectionAuth ErrorType = "connection_auth_failed"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsReauthorizationRequired reports whether err means the user must re-consent
func IsReauthorizationRequired(err error) bool {
	return IsType(err, ErrorTypeReauthRequired)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// NewInvalidStateError creates an error for a missing, expired or reused
// authorization state token. The user must restart the authorization flow.
func NewInvalidStateError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidState,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewCodeExpiredError creates an error for an authorization code the provider
// rejected with invalid_grant. Not retryable; the flow must be restarted.
func NewCodeExpiredError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeCodeExpired,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewExchangeFailedError creates an error for a transient provider failure
// during code exchange or token refresh. Safe to retry after backoff.
func NewExchangeFailedError(message string, internal error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeExchangeFailed,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Internal:   internal,
		Details:    details,
	}
}

// NewReauthRequiredError creates an error meaning the stored refresh token is
// missing or was rejected; the application must prompt for re-consent.
func NewReauthRequiredError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeReauthRequired,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewConnectionAuthError creates an error for a real-time session that
// presented an invalid or expired bearer token
func NewConnectionAuthError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConnectionAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// ErrorResponse represents the JSON error response
type ErrorResponse struct {
	Error struct {
		Type      ErrorType              `json:"type"`
		Message   string                 `json:"message"`
		Details   map[string]interface{} `json:"details,omitempty"`
		RequestID string                 `json:"request_id,omitempty"`
		Timestamp string                 `json:"timestamp"`
	} `json:"error"`
}
