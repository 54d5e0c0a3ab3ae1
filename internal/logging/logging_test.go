package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer.
func captureLogOutput(f func()) string {
	var buf bytes.Buffer
	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)
	f()
	defaultLogger = oldLogger
	return buf.String()
}

func TestLevelHelpers(t *testing.T) {
	out := captureLogOutput(func() {
		Debug("debug msg", "k", "v")
		Info("info msg")
		Warn("warn msg")
		Error("error msg")
	})
	for _, want := range []string{"debug msg", "info msg", "warn msg", "error msg"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc123")
	if got := GetRequestID(ctx); got != "abc123" {
		t.Errorf("GetRequestID = %q, want %q", got, "abc123")
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID on empty context = %q, want empty", got)
	}

	out := captureLogOutput(func() {
		InfoContext(ctx, "with id")
	})
	if !strings.Contains(out, "abc123") {
		t.Error("context logger should carry the request id")
	}
}

func TestDomainHelpers(t *testing.T) {
	out := captureLogOutput(func() {
		ApparatusFetch("Acts.1", "https://example.test/api", true, 2048)
		ConversionEvent("Acts.1", "collation")
		ConversionError("Acts.1", "parse", errors.New("bad xml"))
	})
	for _, want := range []string{
		"apparatus_fetch", `"cached":true`, `"size_bytes":2048`,
		"conversion", `"stage":"collation"`,
		"conversion_error", "bad xml",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Generated ID when the header is absent.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Error("middleware should generate a request id")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Error("request id should echo in the response header")
	}

	// Incoming header is preserved.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "given-id" {
		t.Errorf("request id = %q, want %q", seen, "given-id")
	}
}

func TestLoggingMiddlewareCapturesStatus(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	out := captureLogOutput(func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	})
	if !strings.Contains(out, `"status_code":418`) {
		t.Errorf("log should record the handler status, got %s", out)
	}
	if !strings.Contains(out, "/api/health") {
		t.Error("log should record the request path")
	}
}
