package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub-backend/internal/domain"
	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/logger"
)

// stubAuthService validates exactly one known token
type stubAuthService struct {
	token  string
	claims *domain.AuthClaims
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthClaims, error) {
	if token != s.token {
		return nil, apperrors.NewAuthenticationError("Invalid or expired token")
	}
	return s.claims, nil
}

func newAuthHandler(t *testing.T) (http.Handler, *stubAuthService) {
	t.Helper()

	log, err := logger.New("error")
	require.NoError(t, err)

	svc := &stubAuthService{
		token:  "good-token",
		claims: &domain.AuthClaims{Sub: "user-1", Email: "person@example.com"},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "user-1", claims.Sub)
		w.WriteHeader(http.StatusOK)
	})

	return Auth(svc, log)(next), svc
}

func TestAuthAcceptsValidToken(t *testing.T) {
	handler, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejections(t *testing.T) {
	handler, _ := newAuthHandler(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic Zm9vOmJhcg=="},
		{"empty token", "Bearer "},
		{"invalid token", "Bearer bad-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestUserFromContextMissing(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
