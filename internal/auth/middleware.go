package auth

import (
	"net/http"
	"strings"
)

// Middleware verifies the Bearer token on each request and attaches the
// resulting claims to the request context. Requests without a valid token
// are rejected with 401.
func Middleware(fa *FirebaseAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := fa.VerifyToken(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserClaims(r.Context(), claims)))
		})
	}
}

// LocalDevMiddleware injects a mock user so the server can run locally
// without Firebase. The user ID can be overridden per request with the
// X-Debug-User-ID header.
func LocalDevMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := r.Header.Get("X-Debug-User-ID")
			if uid == "" {
				uid = "local-dev-user"
			}
			claims := &UserClaims{
				UID:         uid,
				Email:       uid + "@local.dev",
				DisplayName: "Local Dev User",
				Verified:    true,
			}
			next.ServeHTTP(w, r.WithContext(WithUserClaims(r.Context(), claims)))
		})
	}
}
