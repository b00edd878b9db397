package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext returns the logger carried by ctx, or a disabled one.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent tags every line logged through ctx with component.
func WithComponent(ctx context.Context, component string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("component", component)
	})
}

// WithSurfaceID tags every line logged through ctx with the surface id.
func WithSurfaceID(ctx context.Context, id uint64) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Uint64("surface_id", id)
	})
}

func with(ctx context.Context, fields func(zerolog.Context) zerolog.Context) context.Context {
	return WithContext(ctx, fields(FromContext(ctx).With()).Logger())
}
