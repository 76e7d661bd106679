package logger

import (
	"context"

	"go.uber.org/zap"
)

// Field names shared by request-scoped log lines.
const (
	KeyRequestID = "request_id"
	KeySubject   = "subject"
	KeyPID       = "pid"
)

type ctxKey struct{}

// Into returns ctx carrying l.
func Into(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request logger, or a no-op logger outside a request.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// With returns a context whose logger carries the extra fields.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return Into(ctx, FromContext(ctx).With(fields...))
}

// ForRequest derives the per-request logger from base and stores it in ctx.
func ForRequest(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l := base.With(zap.String(KeyRequestID, requestID))
	return Into(ctx, l), l
}

// WithSubject tags the request logger with the authenticated caller.
// Anonymous callers leave ctx untouched.
func WithSubject(ctx context.Context, subject string) context.Context {
	if subject == "" {
		return ctx
	}
	return With(ctx, zap.String(KeySubject, subject))
}

// PID is the log field naming an award.
func PID(pid string) zap.Field { return zap.String(KeyPID, pid) }
