package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// authMiddleware is the bearer-token gate in front of the MCP handler.
//
// CORS preflight (OPTIONS) passes without credentials. Every other
// request must present `Authorization: Bearer <API_KEY>`; the token after
// the prefix is compared in constant time against the configured secret.
// A malformed header names the expected shape; a wrong token gets a
// generic message that does not reveal which part of the comparison
// failed. Runs strictly before any filesystem access.
func authMiddleware(apiKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	secret := []byte(apiKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				WriteError(w, http.StatusUnauthorized, "auth_malformed",
					"Missing or invalid Authorization header. Expected: Authorization: Bearer <API_KEY>", logger)
				return
			}

			token := header[len(bearerPrefix):]
			if subtle.ConstantTimeCompare([]byte(token), secret) != 1 {
				logger.Warn("invalid API key",
					"ip", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
				)
				WriteError(w, http.StatusUnauthorized, "auth_invalid", "Invalid API key", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
