package logger

import (
	"context"

	"go.uber.org/zap"
)

// Unexported key type so no other package can collide with the value.
type contextKey struct{}

var reqIDKey contextKey

// WithRequestID stores the request id for FromCtx to pick up downstream.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}

// FromCtx returns the global logger, tagged with the request id when the
// context carries one.
func FromCtx(ctx context.Context) *zap.Logger {
	if id := RequestIDFrom(ctx); id != "" {
		return L().With(zap.String("request_id", id))
	}
	return L()
}
