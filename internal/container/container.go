package container

import (
	"ideahub-backend/internal/config"
	"ideahub-backend/internal/gateway"
	"ideahub-backend/internal/metrics"
	"ideahub-backend/internal/repository"
	"ideahub-backend/internal/service"
	"ideahub-backend/internal/service/auth"
	"ideahub-backend/internal/service/oauth"
	"ideahub-backend/pkg/database"
	"ideahub-backend/pkg/logger"
	"ideahub-backend/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *database.PostgresDB
	Redis     *redis.Client
	Collector *metrics.Collector
	Hub       *gateway.Hub

	CredentialRepo *repository.PostgresCredentialRepo
	Services       *service.Services
}

// New wires up the dependency graph. The provider registry is built once
// from immutable configuration.
func New(cfg *config.Config, log *logger.Logger, db *database.PostgresDB, redisClient *redis.Client) (*Container, error) {
	collector := metrics.NewCollector()
	hub := gateway.NewHub(collector, log.Named("gateway"))

	credentialRepo := repository.NewPostgresCredentialRepo(db)
	providers := oauth.NewRegistry(cfg)
	states := oauth.NewRedisStateStore(redisClient)

	authService := auth.NewService(cfg.JWTSecret, log.Named("auth"))
	coordinator := oauth.NewCoordinator(providers, states, credentialRepo, collector, log.Named("oauth"))
	refresher := oauth.NewRefresher(providers, credentialRepo, collector, log.Named("oauth"))

	services := &service.Services{
		Auth:   authService,
		OAuth:  coordinator,
		Tokens: refresher,
	}

	return &Container{
		Config:         cfg,
		Logger:         log,
		DB:             db,
		Redis:          redisClient,
		Collector:      collector,
		Hub:            hub,
		CredentialRepo: credentialRepo,
		Services:       services,
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetAuthService returns the auth service
func (c *Container) GetAuthService() service.AuthService {
	return c.Services.Auth
}

// GetOAuthCoordinator returns the OAuth flow coordinator
func (c *Container) GetOAuthCoordinator() service.OAuthCoordinator {
	return c.Services.OAuth
}

// GetTokenProvider returns the token refresher
func (c *Container) GetTokenProvider() service.TokenProvider {
	return c.Services.Tokens
}

// GetCredentialRepository returns the credential store
func (c *Container) GetCredentialRepository() repository.CredentialRepository {
	return c.CredentialRepo
}

// GetHub returns the connection registry
func (c *Container) GetHub() *gateway.Hub {
	return c.Hub
}

// GetCollector returns the metrics collector
func (c *Container) GetCollector() *metrics.Collector {
	return c.Collector
}
