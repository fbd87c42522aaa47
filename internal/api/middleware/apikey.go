package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/scoutiq/landscape-api/internal/api/shared"
)

// APIKeyAuth authenticates requests against a single shared API key, taken
// from the X-API-Key header or the apiKey query parameter. When no key is
// configured outside production the check is bypassed so local development
// works without credentials; in production a missing key locks the API.
type APIKeyAuth struct {
	apiKey     string
	production bool
}

// NewAPIKeyAuth creates the middleware for the configured key.
func NewAPIKeyAuth(apiKey string, production bool) *APIKeyAuth {
	if apiKey == "" && production {
		slog.Warn("no API key configured in production, all authenticated routes will reject requests")
	}
	return &APIKeyAuth{
		apiKey:     apiKey,
		production: production,
	}
}

// Authenticate guards a route subtree with the API key check.
func (m *APIKeyAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.apiKey == "" {
			if m.production {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "API key required")
				return
			}
			// Development bypass.
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" {
			provided = r.URL.Query().Get("apiKey")
		}
		if provided == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "API key required")
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.apiKey)) != 1 {
			slog.Warn("rejected request with invalid API key",
				slog.String("trace_id", shared.GetTraceID(r.Context())),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
