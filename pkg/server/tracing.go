package server

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/mirror/pkg/message"
)

// tracer starts one span per inbound event.
type tracer struct {
	t trace.Tracer
}

// newTracer returns a tracer from the global provider, or a no-op tracer
// when tracing is disabled.
func newTracer(opts TracingOptions) *tracer {
	if !opts.Enabled {
		return &tracer{t: noop.NewTracerProvider().Tracer(opts.TracerName)}
	}
	return &tracer{t: otel.Tracer(opts.TracerName)}
}

// start opens the span for one event. msg may be the zero Message when the
// frame did not parse.
func (tr *tracer) start(ctx context.Context, sessionID string, msg message.Message) (context.Context, trace.Span) {
	event := msg.Event()
	if event == "" {
		event = "invalid"
	}
	attrs := []attribute.KeyValue{
		attribute.String("mirror.session_id", sessionID),
		attribute.String("mirror.event", event),
	}
	if id, ok := msg.GetString("id"); ok {
		attrs = append(attrs, attribute.String("mirror.element_id", id))
	}
	return tr.t.Start(ctx, "mirror.event."+event,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
}

// end closes span. failed reports whether a handler failure was shown to
// the client while the event ran.
func end(span trace.Span, failed bool, err error) {
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case failed:
		span.SetStatus(codes.Error, "handler failure")
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
