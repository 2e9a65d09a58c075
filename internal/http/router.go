package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-membership/internal/config"
	"github.com/tendant/simple-membership/internal/http/features/memberships"
	"github.com/tendant/simple-membership/internal/http/features/message"
	"github.com/tendant/simple-membership/internal/http/middleware"
	"github.com/tendant/simple-membership/internal/httputil"
	"github.com/tendant/simple-membership/pkg/membership"
	messageboard "github.com/tendant/simple-membership/pkg/message"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	Registry        *membership.Registry
	Board           *messageboard.Board
	Tokens          middleware.TokenValidator
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)

	// Membership routes
	membershipHandler := memberships.NewHandler(cfg.Logger, cfg.Registry)
	r.Route("/v1/memberships", func(r chi.Router) {
		// Public reads, caller identified when a token is sent
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.Tokens))
			r.Use(rateLimiters[middleware.LimiterRead])
			r.Get("/", membershipHandler.List)
			r.Get("/initial", membershipHandler.Initial)
			r.Get("/status/{status}", membershipHandler.ByStatus)
			r.Get("/creator/{creator}", membershipHandler.ByCreator)
			r.Get("/{id}/expiry-reminder", membershipHandler.ExpiryReminder)
		})

		// Owner-only reads
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Tokens))
			r.Use(rateLimiters[middleware.LimiterRead])
			r.Get("/{id}", membershipHandler.Get)
		})

		// Mutations
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Tokens))
			r.Use(rateLimiters[middleware.LimiterWrite])
			r.Post("/", membershipHandler.Create)
			r.Post("/{id}/members", membershipHandler.AddMember)
			r.Post("/{id}/extend", membershipHandler.Extend)
			r.Post("/{id}/deactivate", membershipHandler.Deactivate)
			r.Put("/{id}/benefits", membershipHandler.UpdateBenefits)
		})
	})

	// Scratch message routes
	messageHandler := message.NewHandler(cfg.Board)
	r.With(rateLimiters[middleware.LimiterRead]).Get("/v1/message", messageHandler.Get)
	r.With(rateLimiters[middleware.LimiterWrite]).Put("/v1/message", messageHandler.Set)

	return r
}
