// Package ctxlog carries the run's *slog.Logger through a context.Context,
// so flow generation and the commands log without a logger argument.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is unexported so no other package can read or overwrite the entry.
type key struct{}

// loggerKey holds the *slog.Logger in a context.Context.
var loggerKey = key{}

// discard is returned when a context has no logger, e.g. in library use
// and tests that call flow.Generate with context.Background().
var discard = slog.New(slog.DiscardHandler)

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored by WithLogger. Without one it
// returns a logger that discards every record.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return discard
}
