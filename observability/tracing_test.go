package observability

import (
	"context"
	"errors"
	"testing"
)

func TestSetupTracing_None(t *testing.T) {
	ctx := context.Background()

	tp, err := SetupTracing(ctx, DefaultTracerConfig())
	if err != nil {
		t.Fatalf("SetupTracing() failed: %v", err)
	}
	defer func() {
		if err := ShutdownTracing(ctx, tp); err != nil {
			t.Errorf("ShutdownTracing() failed: %v", err)
		}
	}()

	ctx, span := StartSpan(ctx, "test-operation")
	AddEvent(ctx, "event")
	SetAttributes(ctx, AttrProjectCount.Int(2))
	if !span.SpanContext().IsValid() {
		t.Error("Span context should be valid")
	}
	span.End()
}

func TestSetupTracing_InvalidExporter(t *testing.T) {
	config := DefaultTracerConfig()
	config.ExporterType = "zipkin"

	if _, err := SetupTracing(context.Background(), config); err == nil {
		t.Error("expected error for unsupported exporter")
	}
}

func TestOperation(t *testing.T) {
	ctx := context.Background()
	tp, err := SetupTracing(ctx, DefaultTracerConfig())
	if err != nil {
		t.Fatalf("SetupTracing() failed: %v", err)
	}
	defer func() { _ = ShutdownTracing(ctx, tp) }()

	_, op := StartOperation(ctx, "frameworks", "/repo/App.sln")
	op.End(nil)

	_, op = StartOperation(ctx, "frameworks", "/repo/App.sln")
	op.End(errors.New("boom"))
}

func TestDefaultTracerConfig(t *testing.T) {
	config := DefaultTracerConfig()
	if config.ServiceName != "slncfg" {
		t.Errorf("ServiceName = %q, want slncfg", config.ServiceName)
	}
	if config.ExporterType != "none" {
		t.Errorf("ExporterType = %q, want none", config.ExporterType)
	}
}
