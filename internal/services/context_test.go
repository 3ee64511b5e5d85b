package services_test

import (
	"context"
	"testing"

	"ridgeid/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStudentID(ctx, "S001")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.StudentIDFromContext(ctx); !ok || id != "S001" {
		t.Fatalf("unexpected student id: %v %v", id, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStudentID(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.StudentIDFromContext(ctx); ok {
		t.Fatal("expected no student id")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
}
