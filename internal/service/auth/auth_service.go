package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"ideahub-backend/internal/domain"
	"ideahub-backend/internal/service"
	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/logger"
)

// Service implements the AuthService interface with HMAC-signed JWTs
type Service struct {
	secret []byte
	logger *logger.Logger
}

// NewService creates a new auth service
func NewService(jwtSecret string, logger *logger.Logger) service.AuthService {
	return &Service{
		secret: []byte(jwtSecret),
		logger: logger,
	}
}

// ValidateToken validates a bearer JWT and returns its claims
func (s *Service) ValidateToken(ctx context.Context, token string) (*domain.AuthClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("JWT validation failed")
		return nil, apperrors.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.NewAuthenticationError("Invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		s.logger.Error("Token has no subject claim")
		return nil, apperrors.NewAuthenticationError("Invalid token: no user identifier")
	}

	authClaims := &domain.AuthClaims{
		Sub:   sub,
		Email: stringClaim(claims, "email"),
		Name:  stringClaim(claims, "name"),
		Iss:   stringClaim(claims, "iss"),
	}
	if iat, ok := claims["iat"].(float64); ok {
		authClaims.Iat = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		authClaims.Exp = int64(exp)
	}

	return authClaims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
