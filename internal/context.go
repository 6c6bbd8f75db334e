package internal

import (
	"context"
	"time"
)

type ctxKey string

// ContextActorKey carries the RUT of the worker or admin performing the
// request, set by the transport layer.
const ContextActorKey ctxKey = "actorRUT"

func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if actor, ok := ctx.Value(ContextActorKey).(string); ok {
		return actor
	}
	return ""
}

func ContextWithActor(ctx context.Context, actorRUT string) context.Context {
	return context.WithValue(ctx, ContextActorKey, actorRUT)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if
// duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
