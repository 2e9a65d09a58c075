// Package service embeds the membership registry API in another program.
//
// Basic usage:
//
//	svc, err := service.New(service.Config{
//	    Store:     repository.NewMemoryStore(),
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/api", svc.Router())
//	http.ListenAndServe(":8080", r)
//
// With SQLite and change events:
//
//	store, _ := repository.OpenSQLite("memberships.db")
//	svc, err := service.New(service.Config{
//	    Store:     store,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	    Publisher: events.NewKafkaPublisher("localhost:9092", "membership-events"),
//	})
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tendant/simple-membership/internal/config"
	httpserver "github.com/tendant/simple-membership/internal/http"
	"github.com/tendant/simple-membership/internal/http/middleware"
	"github.com/tendant/simple-membership/internal/httputil"
	"github.com/tendant/simple-membership/pkg/auth"
	"github.com/tendant/simple-membership/pkg/domain"
	"github.com/tendant/simple-membership/pkg/events"
	"github.com/tendant/simple-membership/pkg/membership"
	"github.com/tendant/simple-membership/pkg/message"
	"github.com/tendant/simple-membership/pkg/repository"
)

// RateLimitConfig and SecurityHeadersConfig tune the HTTP layer.
type (
	RateLimitConfig       = config.RateLimitConfig
	SecurityHeadersConfig = config.SecurityHeadersConfig
)

// Config holds the configuration for the service.
type Config struct {
	// Store holds the membership records (required).
	Store repository.MembershipStore

	// JWTSecret is the secret key for signing caller tokens (required, min 32 chars).
	JWTSecret string

	// JWTIssuer is the issuer claim in caller tokens (default: "simple-membership").
	JWTIssuer string

	// AccessTokenTTL is the lifetime of caller tokens (default: 15 minutes).
	AccessTokenTTL time.Duration

	// Publisher receives change events (default: events are dropped).
	Publisher events.Publisher

	// InitialMessage seeds the scratch message board.
	InitialMessage string

	// RateLimit, SecurityHeaders and MaxRequestBodySize tune the HTTP layer.
	// The zero values disable rate limiting and security headers.
	RateLimit          RateLimitConfig
	SecurityHeaders    SecurityHeadersConfig
	MaxRequestBodySize int64

	// Logger is the structured logger (default: JSON to stdout).
	Logger *slog.Logger
}

// Service is an embeddable membership registry with its HTTP API.
type Service struct {
	config   Config
	tokens   *auth.TokenService
	registry *membership.Registry
	board    *message.Board
	router   http.Handler
}

// New creates a new Service with the given configuration.
func New(cfg Config) (*Service, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	tokens := auth.NewTokenService(auth.TokenConfig{
		AccessTokenTTL: cfg.AccessTokenTTL,
		JWTSecret:      []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
	})
	registry := membership.NewRegistry(cfg.Store, membership.Options{
		Publisher: cfg.Publisher,
		Logger:    cfg.Logger,
	})
	board := message.NewBoard(cfg.InitialMessage)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          cfg.Logger,
		Registry:        registry,
		Board:           board,
		Tokens:          tokens,
		RateLimitConfig: cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		Validation:      config.ValidationConfig{MaxRequestBodySize: cfg.MaxRequestBodySize},
	})

	return &Service{
		config:   cfg,
		tokens:   tokens,
		registry: registry,
		board:    board,
		router:   router,
	}, nil
}

// Router returns the HTTP handler serving every route:
//
//	GET  /health
//	GET  /v1/memberships                        - Page through memberships
//	GET  /v1/memberships/initial                - First page of memberships
//	GET  /v1/memberships/status/{status}        - Memberships by status
//	GET  /v1/memberships/creator/{creator}      - Memberships by creator
//	POST /v1/memberships                        - Create (protected)
//	GET  /v1/memberships/{id}                   - Get (protected, owner only)
//	POST /v1/memberships/{id}/members           - Add member (protected, owner only)
//	POST /v1/memberships/{id}/extend            - Extend (protected, owner only)
//	POST /v1/memberships/{id}/deactivate        - Deactivate (protected, owner only)
//	PUT  /v1/memberships/{id}/benefits          - Replace benefits (protected, owner only)
//	GET  /v1/memberships/{id}/expiry-reminder   - Expiry reminder
//	GET  /v1/message, PUT /v1/message           - Scratch message
func (s *Service) Router() http.Handler {
	return s.router
}

// Handler returns an http.Handler for mounting with http.StripPrefix.
//
//	mux := http.NewServeMux()
//	mux.Handle("/api/", http.StripPrefix("/api", svc.Handler()))
func (s *Service) Handler() http.Handler {
	return s.Router()
}

// Routes registers all routes on an http.ServeMux with the given prefix.
//
//	mux := http.NewServeMux()
//	svc.Routes(mux, "/api")
func (s *Service) Routes(mux *http.ServeMux, prefix string) {
	mux.Handle(prefix+"/", http.StripPrefix(prefix, s.Router()))
}

// Registry returns the registry for direct, in-process use.
func (s *Service) Registry() *membership.Registry {
	return s.registry
}

// TokenService returns the token service for issuing caller tokens.
func (s *Service) TokenService() *auth.TokenService {
	return s.tokens
}

// AuthMiddleware returns middleware that requires a valid caller token.
// Use this to protect your own routes:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(svc.AuthMiddleware())
//	    r.Get("/protected", handler)
//	})
func (s *Service) AuthMiddleware() func(http.Handler) http.Handler {
	return middleware.Auth(s.tokens)
}

// GetCaller extracts the caller from a request.
// Use after AuthMiddleware:
//
//	caller, ok := service.GetCaller(r)
func GetCaller(r *http.Request) (domain.Principal, bool) {
	return middleware.GetCaller(r.Context())
}

// GetCallerFromContext extracts the caller from a context.
func GetCallerFromContext(ctx context.Context) (domain.Principal, bool) {
	return middleware.GetCaller(ctx)
}

// HealthHandler returns a simple health check handler.
func (s *Service) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Close releases the store and the publisher.
func (s *Service) Close() error {
	return errors.Join(s.config.Publisher.Close(), s.config.Store.Close())
}

func validateConfig(cfg *Config) error {
	if cfg.Store == nil {
		return errors.New("service: Store is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("service: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < auth.MinSecretLength {
		return errors.New("service: JWTSecret must be at least 32 characters")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "simple-membership"
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = auth.DefaultAccessTokenTTL
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.NopPublisher{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
}
