package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerToken guards a route with one shared secret, the way MinIO webhook
// targets send their auth_token. An empty token disables the check.
func BearerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			// Support both "Bearer <token>" and "<token>" formats
			got := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			// constant-time comparison
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
