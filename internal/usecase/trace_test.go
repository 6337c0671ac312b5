package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestStartUsecaseSpan_WithoutParentIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	require.Equal(t, ctx, got)
	require.False(t, span.SpanContext().IsValid())
}

func TestStartUsecaseSpan_KeepsParentTrace(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	parent := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	ctx, span := startUsecaseSpan(parent, "usecase.RefreshService.Refresh", attribute.Int64("league", 176))
	defer span.End()

	require.Equal(t, traceID, trace.SpanContextFromContext(ctx).TraceID())
}
