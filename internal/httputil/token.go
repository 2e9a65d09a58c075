package httputil

import (
	"net/http"
	"strings"
)

// AccessTokenCookie is the cookie web clients carry their token in.
const AccessTokenCookie = "access_token"

// BearerToken extracts the access token from the Authorization header,
// falling back to the access token cookie for web clients.
func BearerToken(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1], true
		}
	}

	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
