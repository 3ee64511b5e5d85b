package services

import "context"

type contextKey string

const (
	studentIDKey contextKey = "student_id"
	requestIDKey contextKey = "request_id"
)

// WithStudentID annotates context with the roster identity being operated on.
func WithStudentID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, studentIDKey, id)
}

// StudentIDFromContext extracts the roster identity if present.
func StudentIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(studentIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
