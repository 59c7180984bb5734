package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name for slncfg spans.
const TracerName = "github.com/willibrandon/slncfg"

// Common attribute keys
const (
	AttrSolutionPath  = attribute.Key("slncfg.solution.path")
	AttrWorkspaceRoot = attribute.Key("slncfg.workspace.root")
	AttrOperation     = attribute.Key("slncfg.operation")
	AttrProjectCount  = attribute.Key("slncfg.project.count")
	AttrConfigFiles   = attribute.Key("slncfg.config.files")
	AttrDiagnostics   = attribute.Key("slncfg.diagnostics")
)

// Operation is an in-flight analysis operation: a span plus a start time for
// the duration histogram.
type Operation struct {
	name  string
	start time.Time
	span  trace.Span
}

// StartOperation opens a span named "analysis.<name>".
func StartOperation(ctx context.Context, name, solutionPath string) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, "analysis."+name,
		trace.WithAttributes(
			AttrOperation.String(name),
			AttrSolutionPath.String(solutionPath),
		),
	)
	return ctx, &Operation{name: name, start: time.Now(), span: span}
}

// End records the outcome and duration and closes the span.
func (o *Operation) End(err error) {
	ObserveOperation(o.name, o.start)
	EndSpanWithError(o.span, err)
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
