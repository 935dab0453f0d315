package middleware

import (
	"context"
	"log/slog"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// contextKey is a private type so context values can't collide with keys
// set by other packages.
type contextKey string

const (
	loggerCtxKey contextKey = "logger"
	callerCtxKey contextKey = "caller"
)

// WithLogger returns a context carrying the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetLoggerFromCtx retrieves the request-scoped logger, falling back to the
// default logger when middleware wasn't applied (e.g. in tests).
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithCaller returns a context carrying the resolved caller identity.
func WithCaller(ctx context.Context, caller domain.CallerIdentity) context.Context {
	return context.WithValue(ctx, callerCtxKey, caller)
}

// GetCallerFromCtx retrieves the resolved caller identity.
func GetCallerFromCtx(ctx context.Context) (domain.CallerIdentity, bool) {
	caller, ok := ctx.Value(callerCtxKey).(domain.CallerIdentity)
	return caller, ok
}
