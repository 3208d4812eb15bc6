package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ideahub-backend/internal/domain"
	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/redis"
)

// StateTTL bounds the window in which an authorization callback is accepted
const StateTTL = 10 * time.Minute

// StateStore persists authorization requests between the authorize redirect
// and the provider callback. State tokens are single-use.
type StateStore interface {
	Save(ctx context.Context, req *domain.AuthorizationRequest) error
	// Consume atomically retrieves and destroys the request for a state
	// token. A missing, expired or already-consumed token yields an
	// invalid_state AppError.
	Consume(ctx context.Context, state string) (*domain.AuthorizationRequest, error)
}

// RedisStateStore stores authorization requests in Redis. Expiry sweep is
// the key TTL; single use comes from GETDEL.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore creates a Redis-backed state store
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// Save stores the authorization request under its state token
func (s *RedisStateStore) Save(ctx context.Context, req *domain.AuthorizationRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal authorization request: %w", err)
	}

	key := s.client.KeyBuilder.KeyState(req.StateToken)
	if err := s.client.Set(ctx, key, data, StateTTL); err != nil {
		return fmt.Errorf("failed to store authorization request: %w", err)
	}
	return nil
}

// Consume retrieves and destroys the request for a state token
func (s *RedisStateStore) Consume(ctx context.Context, state string) (*domain.AuthorizationRequest, error) {
	key := s.client.KeyBuilder.KeyState(state)
	data, err := s.client.GetDel(ctx, key)
	if err == redis.Nil {
		return nil, apperrors.NewInvalidStateError("state token is missing, expired or already used")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume authorization request: %w", err)
	}

	var req domain.AuthorizationRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal authorization request: %w", err)
	}
	return &req, nil
}
