package cache

import (
	"bytes"
	"net/http"
	"time"

	"oohunt/internal/metrics"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// StatusHeader reports HIT or MISS on cached routes
const StatusHeader = "X-Cache"

// Middleware serves GET responses from store and caches successful ones for
// ttl under tags. Cache failures fall through to the handler.
func Middleware(store Store, ttl time.Duration, logger *zap.Logger, tags ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || ttl <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()

			body, ok, err := store.Get(r.Context(), key)
			if err != nil {
				metrics.RecordCacheLookup("error")
				logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
			}
			if ok {
				metrics.RecordCacheLookup("hit")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(StatusHeader, "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}

			metrics.RecordCacheLookup("miss")
			w.Header().Set(StatusHeader, "MISS")
			var buf bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)

			next.ServeHTTP(ww, r)

			if ww.Status() != http.StatusOK {
				return
			}
			if err := store.Set(r.Context(), key, buf.Bytes(), ttl, tags...); err != nil {
				logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		})
	}
}
