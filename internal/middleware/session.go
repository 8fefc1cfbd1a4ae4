package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sharathkodoth/backend-project/internal/auth"
	"github.com/sharathkodoth/backend-project/internal/logging"
)

// TokenVerifier validates an access token and resolves the embedded identity.
type TokenVerifier interface {
	VerifyAccessToken(token string) (auth.Identity, error)
}

// RequireAuth gates a handler behind access-token verification. The bearer
// value is read from the Authorization header first and the accessToken cookie
// second; the header wins when both are present. Verification is purely
// cryptographic, so a rejected request never reaches storage.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, "access token is missing")
				return
			}

			identity, err := verifier.VerifyAccessToken(token)
			if err != nil {
				logging.FromContext(r.Context()).Warn("rejected access token", "error", err)
				unauthorized(w, "invalid or expired access token")
				return
			}

			ctx := auth.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches an identity when a valid access token is present but
// never rejects the request. Public read endpoints use it to decorate
// responses for signed-in viewers.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.VerifyAccessToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the presented access token: Authorization header first,
// accessToken cookie as the fallback.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		if token := strings.TrimSpace(header[7:]); token != "" {
			return token
		}
	}

	if cookie, err := r.Cookie(auth.AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
