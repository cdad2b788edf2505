package logger

import (
	"context"

	"github.com/google/uuid"
)

// WithTraceID adds a trace ID to the context, generating a new UUID when
// none is provided.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = uuid.New().String()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID extracts the trace ID from the context, or returns an empty
// string if none is set.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// NewTraceID generates a new trace ID using UUID v4.
func NewTraceID() string {
	return uuid.New().String()
}
