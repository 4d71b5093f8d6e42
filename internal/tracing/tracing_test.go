package tracing

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupDisabled(t *testing.T) {
	t.Parallel()

	tp, shutdown, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, ok := tp.(*sdktrace.TracerProvider); ok {
		t.Error("expected a no-op provider without endpoint")
	}
	_, span := tp.Tracer("test").Start(context.Background(), "op")
	if span.SpanContext().IsValid() {
		t.Error("no-op span should have an invalid span context")
	}
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestSetupWithEndpoint(t *testing.T) {
	tp, shutdown, err := Setup(context.Background(), Config{
		Endpoint:    "127.0.0.1:4318",
		Insecure:    true,
		ServiceName: "botapi-test",
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, ok := tp.(*sdktrace.TracerProvider); !ok {
		t.Fatalf("provider = %T, want *sdktrace.TracerProvider", tp)
	}

	// No spans were recorded, so shutdown has nothing to send.
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
