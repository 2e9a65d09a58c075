package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/tendant/simple-membership/internal/config"
	"github.com/tendant/simple-membership/internal/httputil"
)

// Limiter names
const (
	LimiterRead  = "read"
	LimiterWrite = "write"
)

// RateLimitConfig holds rate limiting configuration for a specific endpoint type.
type RateLimitConfig struct {
	Name     string
	Requests int
	Window   time.Duration
	Logger   *slog.Logger
}

// RateLimit creates an IP-based rate limiter middleware with logging.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Logger != nil {
				cfg.Logger.Warn("rate limit exceeded",
					"limiter", cfg.Name,
					"ip", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
				)
			}
			httputil.Error(w, http.StatusTooManyRequests, "rate limit exceeded. please try again later")
		}),
	)
}

// NoRateLimit returns a no-op middleware when rate limiting is disabled.
func NoRateLimit() func(http.Handler) http.Handler {
	return passthrough()
}

// CreateRateLimiters creates the read and write limiters from configuration.
func CreateRateLimiters(cfg config.RateLimitConfig, logger *slog.Logger) map[string]func(http.Handler) http.Handler {
	if !cfg.Enabled {
		noOp := NoRateLimit()
		return map[string]func(http.Handler) http.Handler{
			LimiterRead:  noOp,
			LimiterWrite: noOp,
		}
	}

	window := time.Duration(cfg.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}

	return map[string]func(http.Handler) http.Handler{
		LimiterRead: RateLimit(RateLimitConfig{
			Name:     LimiterRead,
			Requests: cfg.ReadRequestsPerWindow,
			Window:   window,
			Logger:   logger,
		}),
		LimiterWrite: RateLimit(RateLimitConfig{
			Name:     LimiterWrite,
			Requests: cfg.WriteRequestsPerWindow,
			Window:   window,
			Logger:   logger,
		}),
	}
}
