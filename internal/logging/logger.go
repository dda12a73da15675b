// Package logging defines a minimal structured-logging interface used across
// the project, with slog and zap backed implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "entry shared", "entry_id", id, "recipient", recipientID)
type Logger interface {
	// Debug logs verbose diagnostics.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported backends.
const (
	FormatSlog = "slog"
	FormatZap  = "zap"
)

// New builds a Logger writing JSON lines to w using the requested backend.
// Unknown levels fall back to info.
func New(format, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatSlog:
		return newSlogJSON(level, w), nil
	case FormatZap:
		l, err := newZap(level, w)
		if err != nil {
			return nil, err
		}
		return NewZapLogger(l), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewZapLogger(zap.NewNop())
}
