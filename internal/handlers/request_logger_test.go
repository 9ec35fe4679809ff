package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gitshopapp/boxshop/internal/logging"
)

func TestRequestIDFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{name: "caller id", header: "abc-123", reused: true},
		{name: "missing", header: "", reused: false},
		{name: "control characters", header: "abc\x01def", reused: false},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLength+1), reused: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			got := requestIDFromRequest(req)
			if got == "" {
				t.Fatal("expected a request id")
			}
			if (got == tt.header) != tt.reused {
				t.Fatalf("reused=%v, got %q", tt.reused, got)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	var buf bytes.Buffer
	env.handlers.logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var scoped bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context(), nil).Info("inside handler")
		scoped = true
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products/x", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	env.handlers.RequestLogger(next).ServeHTTP(rec, req)

	if !scoped || rec.Header().Get("X-Request-ID") != "req-42" {
		t.Fatalf("expected echoed request id, got %q", rec.Header().Get("X-Request-ID"))
	}
	out := buf.String()
	if !strings.Contains(out, `msg="inside handler"`) || !strings.Contains(out, "request_id=req-42") {
		t.Fatalf("expected request-scoped logger, got %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, `msg="request rejected"`) || !strings.Contains(out, "status=404") {
		t.Fatalf("expected 4xx to log at warn, got %q", out)
	}
}
