package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	sessionIDKey contextKey = "session_id"
	userIDKey    contextKey = "user_id"
)

// Field names shared by request, SQL and business logs
const (
	FieldRequestID = "request_id"
	FieldSessionID = "session_id"
	FieldUserID    = "user_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
)

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the request logger, or a no-op logger outside a request
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID records the request ID and tags the request logger with it
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return annotate(ctx, requestIDKey, FieldRequestID, requestID)
}

// WithSessionID records the cart session and tags the request logger with it
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return annotate(ctx, sessionIDKey, FieldSessionID, sessionID)
}

// WithUserID records the signed-in user and tags the request logger with it
func WithUserID(ctx context.Context, userID string) context.Context {
	return annotate(ctx, userIDKey, FieldUserID, userID)
}

// annotate stores value under key. A logger already attached to ctx is
// replaced by one carrying the field, so later entries of the request have it.
func annotate(ctx context.Context, key contextKey, field, value string) context.Context {
	ctx = context.WithValue(ctx, key, value)
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		ctx = WithContext(ctx, logger.With(zap.String(field, value)))
	}
	return ctx
}

// GetRequestID returns the request ID, or ""
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// GetSessionID returns the cart session ID, or ""
func GetSessionID(ctx context.Context) string {
	return stringValue(ctx, sessionIDKey)
}

// GetUserID returns the signed-in user ID, or ""
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, userIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// Fields returns the correlation fields known in ctx: request, cart session,
// user and the active span. Absent values are left out.
func Fields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 5)
	for _, kv := range [...]struct {
		key   contextKey
		field string
	}{
		{requestIDKey, FieldRequestID},
		{sessionIDKey, FieldSessionID},
		{userIDKey, FieldUserID},
	} {
		if v := stringValue(ctx, kv.key); v != "" {
			fields = append(fields, zap.String(kv.field, v))
		}
	}
	return append(fields, traceFields(ctx)...)
}

func traceFields(ctx context.Context) []zap.Field {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String(FieldTraceID, spanCtx.TraceID().String()),
		zap.String(FieldSpanID, spanCtx.SpanID().String()),
	}
}

// L returns the request logger with the active span attached.
// The span starts after the request logger is built, so it is added here.
func L(ctx context.Context) *zap.Logger {
	logger := FromContext(ctx)
	if fields := traceFields(ctx); fields != nil {
		return logger.With(fields...)
	}
	return logger
}
