package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/repocat/repocat/internal/auth"
	"github.com/repocat/repocat/internal/model"
)

// UserResolver resolves an API token hash to the user it belongs to.
// *store.Store satisfies it.
type UserResolver interface {
	GetUserByTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
}

// IdentityCache caches resolved token-hash to user-ID mappings.
// *cache.Cache satisfies it; nil disables caching.
type IdentityCache interface {
	GetIdentity(ctx context.Context, tokenHash string) (string, error)
	SetIdentity(ctx context.Context, tokenHash, userID string) error
}

// IdentityConfig holds configuration for the identity middleware.
type IdentityConfig struct {
	Logger *slog.Logger
	Store  UserResolver
	Cache  IdentityCache
}

// Identity returns a middleware that resolves the acting user for API
// requests. It extracts the bearer token from the Authorization header,
// resolves it to a user ID (cache first, then store) and injects the
// identity into the request context. Handlers and the catalog core
// trust this identity and never re-verify credentials.
func Identity(cfg IdentityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("identity resolution failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeIdentityError(w)
				return
			}

			if err := auth.ValidateTokenFormat(token); err != nil {
				cfg.Logger.Warn("identity resolution failed",
					slog.String("reason", "invalid_format"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeIdentityError(w)
				return
			}

			tokenHash := auth.HashToken(token)

			// Check cache first
			if cfg.Cache != nil {
				if userID, err := cfg.Cache.GetIdentity(r.Context(), tokenHash); err == nil {
					ctx := auth.ContextWithIdentity(r.Context(), userID)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			user, err := cfg.Store.GetUserByTokenHash(r.Context(), tokenHash)
			if err != nil {
				cfg.Logger.Warn("identity resolution failed",
					slog.String("reason", "unknown_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeIdentityError(w)
				return
			}

			if cfg.Cache != nil {
				// Best effort; a lost entry just means another store lookup.
				_ = cfg.Cache.SetIdentity(r.Context(), tokenHash, user.ID)
			}

			ctx := auth.ContextWithIdentity(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// writeIdentityError writes a uniform 401 response.
// The body never says whether the token was missing, malformed or unknown.
func writeIdentityError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="repocat"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required","code":"UNAUTHORIZED"}`))
}
