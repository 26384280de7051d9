// Package logging defines the structured logger shared by the client and the
// server. The CLI wraps slog (writing to the client log file), the server
// wraps zerolog; packages like syncer and httpapi only see the interface.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "sync cycle finished", "uploaded", n, "skipped", skipped)
type Logger interface {
	// Info logs normal operation, such as a completed sync cycle.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but recoverable conditions, such as a record
	// skipped during reconciliation.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value
	// pairs, e.g. With("component", "scheduler").
	With(args ...any) Logger
}
