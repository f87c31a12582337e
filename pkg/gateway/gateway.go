package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lei/quantum-tracker/internal/api"
	"github.com/lei/quantum-tracker/internal/config"
	"github.com/lei/quantum-tracker/internal/provider"
	"github.com/lei/quantum-tracker/internal/provider/ibm"
	"github.com/lei/quantum-tracker/internal/service"
	"github.com/lei/quantum-tracker/pkg/logger"
)

// Gateway represents a quantum tracker gateway instance
type Gateway struct {
	config  *config.Config
	service *service.Service
	router  http.Handler
	server  *http.Server
	logger  *logger.Logger
}

// Config holds the configuration for the Gateway
type Config struct {
	// Server configuration
	Server ServerConfig

	// Authentication configuration
	Auth AuthConfig

	// IBM Quantum connection configuration
	IBM IBMConfig

	// Logger configuration
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// APIKeys is a list of API keys for authentication. Empty means the
	// API is open.
	APIKeys []APIKey
}

// APIKey represents an API key for authentication
type APIKey struct {
	Name string
	Key  string
}

// IBMConfig holds IBM Quantum connection configuration. An empty Token
// or Instance disables the vendor session; the gateway still serves, with
// every API endpoint answering 503.
type IBMConfig struct {
	Token              string
	Instance           string
	Channel            string
	TokenRefreshMargin time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// New creates a new Gateway instance with the provided configuration
func New(cfg *Config) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// Convert to the internal config format and fill in defaults
	apiKeys := make([]config.APIKey, len(cfg.Auth.APIKeys))
	for i, key := range cfg.Auth.APIKeys {
		apiKeys[i] = config.APIKey{
			Name: key.Name,
			Key:  key.Key,
		}
	}

	internal := &config.Config{
		Server: config.ServerConfig{
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		Auth: config.AuthConfig{APIKeys: apiKeys},
		IBM: config.IBMConfig{
			Token:              cfg.IBM.Token,
			Instance:           cfg.IBM.Instance,
			Channel:            cfg.IBM.Channel,
			TokenRefreshMargin: cfg.IBM.TokenRefreshMargin,
		},
		Logging: config.LoggingConfig{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		},
	}
	internal.ApplyDefaults()

	return newGateway(internal)
}

// NewFromEnv creates a Gateway configured from environment variables,
// optionally overlaid with a YAML config file when path is non-empty
func NewFromEnv(path string) (*Gateway, error) {
	if path == "" {
		return newGateway(config.FromEnv())
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newGateway(cfg)
}

// newGateway wires the provider, service, and API layers. Missing vendor
// credentials do not fail construction: the gateway comes up with the
// session disabled and every API endpoint answering 503.
func newGateway(cfg *config.Config) (*Gateway, error) {
	appLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	var prov provider.Provider
	if cfg.SessionConfigured() {
		adapter, err := ibm.NewAdapter(&ibm.Config{
			Token:              cfg.IBM.Token,
			InstanceCRN:        cfg.IBM.Instance,
			Channel:            cfg.IBM.Channel,
			TokenRefreshMargin: cfg.IBM.TokenRefreshMargin,
		}, appLogger)
		if err != nil {
			return nil, fmt.Errorf("initialize ibm quantum provider: %w", err)
		}
		prov = adapter
		appLogger.Info("connected to IBM Quantum Runtime service", "channel", cfg.IBM.Channel)

		// Startup probe, best effort
		probeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if backends, err := adapter.Backends(probeCtx); err != nil {
			appLogger.Warn("failed to fetch backends on startup", "error", err)
		} else {
			appLogger.Info("backends visible to session", "count", len(backends))
		}
		cancel()
	} else {
		appLogger.Warn("IBM Quantum credentials not found in environment")
		appLogger.Warn("set IBM_QUANTUM_TOKEN and IBM_QUANTUM_INSTANCE in .env file")
		appLogger.Warn("running without live IBM Quantum connection - API endpoints will return 503")
	}

	svc := service.NewService(prov, appLogger)

	handlers := api.NewHandlers(svc)
	authMiddleware := api.NewAuthMiddleware(cfg.Auth.APIKeys)
	loggingMiddleware := api.NewLoggingMiddleware(appLogger)
	router := api.NewRouter(handlers, authMiddleware, loggingMiddleware)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Gateway{
		config:  cfg,
		service: svc,
		router:  router,
		server:  srv,
		logger:  appLogger,
	}, nil
}

// Start starts the HTTP server. It blocks until the context is canceled
// or the server fails.
func (g *Gateway) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		g.logger.Info("starting http server", "port", g.config.Server.Port)
		serverErrors <- g.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		g.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := g.server.Shutdown(shutdownCtx); err != nil {
			g.server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		g.logger.Info("server stopped gracefully")
		return nil
	}
}

// Handler returns the http.Handler for the gateway, for embedding into an
// existing HTTP server
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Service returns the underlying service layer for direct programmatic
// access
func (g *Gateway) Service() *service.Service {
	return g.service
}
