package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/ingredient-registry/pkg/kit"
)

// instrument is the middleware stack applied to every endpoint regardless of
// transport: assign a request ID when none arrived, then log the call.
func instrument(logger *slog.Logger, name string) kit.Middleware {
	return kit.Chain(requestID(), logCalls(logger, name))
}

// requestID fills in a random ID for calls that arrive without one, such as
// MCP tool calls, so every log line is correlatable.
func requestID() kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			if kit.GetRequestID(ctx) == "" {
				ctx = kit.WithRequestID(ctx, newRequestID())
			}
			return next(ctx, request)
		}
	}
}

// logCalls emits one line per endpoint call, at warn level on error.
func logCalls(logger *slog.Logger, name string) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			attrs := []any{
				"endpoint", name,
				"transport", kit.GetTransport(ctx),
				"request_id", kit.GetRequestID(ctx),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Warn("endpoint failed", append(attrs, "error", err)...)
			} else {
				logger.Debug("endpoint served", attrs...)
			}
			return resp, err
		}
	}
}

// httpRequestID propagates the client's X-Request-ID header into the request
// context, minting one when absent, and echoes it on the response.
func httpRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = newRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(kit.WithRequestID(r.Context(), id)))
	})
}

func newRequestID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
