package mocks

import (
	"context"
	"guestroom/infras/otel"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recorder struct {
	provider *trace.TracerProvider
}

// NewRecorder returns a tracer whose ended spans can be read back from the SpanRecorder.
func NewRecorder() (otel.Otel, *tracetest.SpanRecorder) {
	spans := tracetest.NewSpanRecorder()

	return recorder{provider: trace.NewTracerProvider(trace.WithSpanProcessor(spans))}, spans
}

func (r recorder) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	ctx, span := r.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, otel.NewScope(span)
}
