package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"imagestudio/internal/auth"
	"imagestudio/internal/httputil"
)

// sessionCookieName is checked when no Authorization header is present,
// for browser clients that keep the token in a cookie.
const sessionCookieName = "session"

// Auth validates the bearer token on every request and attaches the
// authenticated user to the request context. Requests without a valid
// token get a 401 problem response.
func Auth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing credentials")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithAuthUser(r, claims.User()))
		})
	}
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return token
		}
		return ""
	}

	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}

	return ""
}
