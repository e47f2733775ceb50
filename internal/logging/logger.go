// Package logging defines a minimal structured-logging interface used across
// the project. Implementations wrap slog and zap; the backend is selected
// through configuration.
package logging

import (
	"context"
	"fmt"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "wallet created", "user_id", userID, "protection", level)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}

// Backends accepted by New.
const (
	BackendSlog = "slog"
	BackendText = "text"
	BackendZap  = "zap"
)

// New builds a Logger for the given backend at the given level. Level is one
// of "debug", "info", "warn" or "error"; anything else means "info".
// The slog backend emits JSON, text emits human-readable development output
// and zap uses its production JSON configuration.
func New(backend, level string) (Logger, error) {
	switch backend {
	case BackendSlog, "":
		return newSlog(level), nil
	case BackendText:
		return newSlogText(level), nil
	case BackendZap:
		return newZap(level)
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
