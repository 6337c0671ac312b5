package httpapi

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := map[string]bool{
		"httpapi.Handler.ListGames":  true,
		"httpapi.Handler.AssignGame": true,
		"httpapi.RequireAuth":        true,
		"httpapi.RequestLogging":     false,
		"httpapi.writeError":         false,
		"usecase.GameService.List":   false,
	}
	for name, want := range tests {
		if got := shouldCreateHTTPAPISpan(name); got != want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", name, got, want)
		}
	}
}

func TestStartSpan_UntracedRequestIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.ListGames")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected noop span")
	}
	if trace.SpanFromContext(got).SpanContext().IsValid() {
		t.Fatalf("expected no span in context")
	}
}

func TestShouldTraceRequest(t *testing.T) {
	tests := map[string]bool{
		"/healthz":    false,
		" /healthz ":  false,
		"/readyz":     false,
		"/livez":      false,
		"/v1/games":   true,
		"/v1/leagues": true,
		"/docs":       true,
	}
	for path, want := range tests {
		if got := shouldTraceRequest(path); got != want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", path, got, want)
		}
	}
}
