// Package logging defines the structured-logging interface used across
// weightkeeper. The default implementation wraps log/slog.
//
// Passcode digits, hashes and store keys must never be passed as attributes.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "route resolved", "route", route)
type Logger interface {
	// Debug logs diagnostic detail (state transitions, ceremony ids).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a recoverable anomaly, e.g. a biometric error outcome.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure that is propagated to the caller.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Nop discards everything. Useful as a default when no logger is injected.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
