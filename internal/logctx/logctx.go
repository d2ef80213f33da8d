// Package logctx carries a zerolog logger through context.Context so that a
// command can tag every log line it causes (command name, data file) without
// threading a logger argument through each call.
//
//	ctx := logctx.WithLogger(ctx, base)
//	ctx = logctx.WithStr(ctx, "command", "rank-sellers")
//	log := logctx.FromContext(ctx)
//	log.Info().Msg("report generated")
package logctx

import (
	"context"

	"github.com/eunmann/energy-ledger/pkg/logging"
	"github.com/rs/zerolog"
)

type loggerKey struct{}

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from ctx, falling back to the global
// logging.L() logger when ctx is nil or carries none.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return logger
		}
	}
	return *logging.L()
}

// WithStr returns a new context whose logger has the string field added.
func WithStr(ctx context.Context, key, value string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With().Str(key, value).Logger())
}

// WithInt returns a new context whose logger has the int field added.
func WithInt(ctx context.Context, key string, value int) context.Context {
	return WithLogger(ctx, FromContext(ctx).With().Int(key, value).Logger())
}
