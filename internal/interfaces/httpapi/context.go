package httpapi

import (
	"context"

	"github.com/riskibarqy/basket-api/internal/domain/access"
)

type contextKey string

const (
	callerContextKey    contextKey = "auth_caller"
	requestIDContextKey contextKey = "request_id"
)

func withCaller(ctx context.Context, c access.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, c)
}

func callerFromContext(ctx context.Context) (access.Caller, bool) {
	c, ok := ctx.Value(callerContextKey).(access.Caller)
	return c, ok && c != nil
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
