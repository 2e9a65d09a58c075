package middleware

import (
	"context"
	"net/http"

	"github.com/tendant/simple-membership/internal/httputil"
	"github.com/tendant/simple-membership/pkg/domain"
)

type contextKey string

// CallerKey is the context key for the calling principal.
const CallerKey contextKey = "caller"

// TokenValidator resolves a bearer token to the principal it names.
type TokenValidator interface {
	ValidateToken(token string) (domain.Principal, error)
}

// Auth creates middleware that requires a valid bearer token.
// Checks Authorization header first, then falls back to cookie for web clients.
func Auth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := httputil.BearerToken(r)
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			caller, err := tokens.ValidateToken(tokenString)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// OptionalAuth creates middleware that identifies the caller when a token is
// present and treats the request as anonymous when it is not. A token that is
// present but invalid is still rejected.
func OptionalAuth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := domain.AnonymousPrincipal

			if tokenString, ok := httputil.BearerToken(r); ok {
				p, err := tokens.ValidateToken(tokenString)
				if err != nil {
					httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
				caller = p
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller domain.Principal) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// GetCaller extracts the calling principal from the request context.
func GetCaller(ctx context.Context) (domain.Principal, bool) {
	caller, ok := ctx.Value(CallerKey).(domain.Principal)
	return caller, ok
}
