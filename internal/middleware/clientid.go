package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ClientIDHeader identifies anonymous browsers
const ClientIDHeader = "X-Client-Id"

// ClientIDChecker validates anonymous client ids
type ClientIDChecker interface {
	Valid(id string) bool
}

// GetClientID extracts the anonymous client id from request context
func GetClientID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	return id, ok
}

// WithClientID stores a validated client id in ctx
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// RequireClientID rejects requests without a valid x-client-id header
// before they reach a handler. Failures use the favorites envelope.
func RequireClientID(checker ClientIDChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(ClientIDHeader))
			if !checker.Valid(id) {
				logger.Debug("Invalid client id", zap.Int("length", len(id)))
				RespondWithCode(w, http.StatusUnauthorized, "valid x-client-id header is required", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), id)))
		})
	}
}
