package oteltrace

import (
	"context"

	"inventorypos/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct{ t trace.Tracer }

// New returns a tracer port backed by the globally configured otel
// provider; see telemetry.InitTracer for the SDK bootstrap.
func New(name string) observability.Tracer {
	if name == "" {
		name = "inventorypos"
	}
	return &tracer{t: otel.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
