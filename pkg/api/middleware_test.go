package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hazyhaar/ingredient-registry/pkg/kit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInstrumentAssignsRequestID(t *testing.T) {
	var seen string
	endpoint := instrument(discardLogger(), "test")(func(ctx context.Context, _ any) (any, error) {
		seen = kit.GetRequestID(ctx)
		return "ok", nil
	})

	resp, err := endpoint(context.Background(), nil)
	if err != nil {
		t.Fatalf("endpoint returned error: %v", err)
	}
	if resp != "ok" {
		t.Errorf("response = %v, want ok", resp)
	}
	if seen == "" {
		t.Error("no request ID assigned to the call context")
	}
}

func TestInstrumentKeepsExistingRequestID(t *testing.T) {
	var seen string
	endpoint := instrument(discardLogger(), "test")(func(ctx context.Context, _ any) (any, error) {
		seen = kit.GetRequestID(ctx)
		return nil, nil
	})

	ctx := kit.WithRequestID(context.Background(), "fixed-id")
	if _, err := endpoint(ctx, nil); err != nil {
		t.Fatalf("endpoint returned error: %v", err)
	}
	if seen != "fixed-id" {
		t.Errorf("request ID = %q, want fixed-id", seen)
	}
}

func TestInstrumentPropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	endpoint := instrument(discardLogger(), "test")(func(context.Context, any) (any, error) {
		return nil, sentinel
	})

	if _, err := endpoint(context.Background(), nil); !errors.Is(err, sentinel) {
		t.Errorf("error = %v, want %v", err, sentinel)
	}
}

func TestHTTPRequestID(t *testing.T) {
	var ctxID string
	h := httpRequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = kit.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	echoed := rec.Header().Get("X-Request-ID")
	if echoed == "" {
		t.Fatal("no X-Request-ID header on the response")
	}
	if echoed != ctxID {
		t.Errorf("header %q does not match context ID %q", echoed, ctxID)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if ctxID != "client-supplied" {
		t.Errorf("context ID = %q, want the client-supplied one", ctxID)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied" {
		t.Errorf("echoed header = %q, want client-supplied", got)
	}
}
