package oauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"ideahub-backend/internal/domain"
	"ideahub-backend/internal/metrics"
	"ideahub-backend/internal/repository"
	"ideahub-backend/internal/service"
	apperrors "ideahub-backend/pkg/errors"
	"ideahub-backend/pkg/logger"
)

// exchangeTimeout bounds every token-endpoint and profile call. A timeout is
// a transient exchange failure; the credential store is left unchanged.
const exchangeTimeout = 15 * time.Second

// Coordinator drives the authorization-code grant for all providers
type Coordinator struct {
	providers Registry
	states    StateStore
	store     repository.CredentialRepository
	collector *metrics.Collector
	logger    *logger.Logger
}

// NewCoordinator creates a new flow coordinator
func NewCoordinator(providers Registry, states StateStore, store repository.CredentialRepository, collector *metrics.Collector, logger *logger.Logger) *Coordinator {
	return &Coordinator{
		providers: providers,
		states:    states,
		store:     store,
		collector: collector,
		logger:    logger,
	}
}

// BeginAuthorization builds the provider's authorization URL and issues a
// fresh state token bound to userID. Offline access and forced consent are
// requested so the provider issues a refresh token where it supports one.
func (c *Coordinator) BeginAuthorization(ctx context.Context, provider domain.Provider, userID string) (string, string, error) {
	client, ok := c.providers.Lookup(provider)
	if !ok {
		return "", "", apperrors.NewValidationError("unknown provider", map[string]interface{}{"provider": string(provider)})
	}

	state := uuid.NewString()
	req := &domain.AuthorizationRequest{
		StateToken: state,
		Provider:   provider,
		UserID:     userID,
		IssuedAt:   time.Now().UTC(),
	}
	if err := c.states.Save(ctx, req); err != nil {
		return "", "", apperrors.NewInternalError("failed to issue authorization state", err)
	}

	authURL := client.OAuthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))

	c.logger.WithFields(map[string]interface{}{
		"provider": string(provider),
		"user_id":  userID,
	}).Info("Authorization flow started")

	return authURL, state, nil
}

// CompleteAuthorization validates the callback state, exchanges the code and
// atomically replaces any existing credential for (user, provider). The state
// token is consumed whether or not the exchange succeeds.
func (c *Coordinator) CompleteAuthorization(ctx context.Context, provider domain.Provider, code string, state string) (*service.AuthorizationResult, error) {
	client, ok := c.providers.Lookup(provider)
	if !ok {
		return nil, apperrors.NewValidationError("unknown provider", map[string]interface{}{"provider": string(provider)})
	}

	req, err := c.states.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if req.Provider != provider {
		return nil, apperrors.NewInvalidStateError("state token was issued for a different provider")
	}

	cfg := client.OAuthConfig()

	exchangeCtx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := cfg.Exchange(exchangeCtx, code)
	if err != nil {
		c.collector.RecordExchange(provider, "failure")
		return nil, mapExchangeError(err, "code exchange failed")
	}

	profile, err := client.FetchProfile(exchangeCtx, oauth2.StaticTokenSource(token))
	if err != nil {
		c.collector.RecordExchange(provider, "failure")
		return nil, apperrors.NewExchangeFailedError("failed to fetch provider profile", err, nil)
	}

	cred := &domain.Credential{
		UserID:            req.UserID,
		Provider:          provider,
		AccessToken:       token.AccessToken,
		Scopes:            grantedScopes(token, cfg.Scopes),
		ExpiresAt:         token.Expiry,
		ProfileIdentifier: profile.Identifier,
		ProfileName:       profile.Name,
	}
	if token.RefreshToken != "" {
		rt := token.RefreshToken
		cred.RefreshToken = &rt
	}

	if err := c.store.Replace(ctx, cred); err != nil {
		c.collector.RecordExchange(provider, "failure")
		return nil, apperrors.NewInternalError("failed to persist credential", err)
	}

	c.collector.RecordExchange(provider, "success")

	log := c.logger.WithFields(map[string]interface{}{
		"provider": string(provider),
		"user_id":  req.UserID,
	})
	if token.RefreshToken == "" {
		// Repeat consent on some providers omits the refresh token; the
		// access token is still usable until expiry.
		log.Warn("No refresh token issued by provider")
	} else {
		log.Info("Authorization flow completed")
	}

	return &service.AuthorizationResult{
		Credential:         cred,
		RefreshTokenIssued: token.RefreshToken != "",
	}, nil
}

// mapExchangeError classifies a token-endpoint error. invalid_grant means the
// code (or refresh token) is expired, revoked or reused and the flow must be
// restarted; everything else is a transient provider failure.
func mapExchangeError(err error, message string) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode == "invalid_grant" {
			return apperrors.NewCodeExpiredError("authorization code is expired or was already used")
		}
		details := map[string]interface{}{}
		if retrieveErr.ErrorCode != "" {
			details["error"] = retrieveErr.ErrorCode
		}
		if retrieveErr.ErrorDescription != "" {
			details["error_description"] = retrieveErr.ErrorDescription
		}
		return apperrors.NewExchangeFailedError(message, err, details)
	}
	return apperrors.NewExchangeFailedError(message, err, nil)
}

// grantedScopes prefers the scopes the provider reported on the token
// response, falling back to the requested set
func grantedScopes(token *oauth2.Token, requested []string) []string {
	raw, _ := token.Extra("scope").(string)
	if raw == "" {
		return append([]string(nil), requested...)
	}
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ','
	})
}
