package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("tennis-league/internal/interfaces/httpapi")

// startSpan opens handler spans only, and only under a traced request.
// Middleware and helpers get the parent's span back so health probes never
// produce orphan roots.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, nonRecording(parent)
	}

	var attrs []attribute.KeyValue
	if info := routeInfoFromContext(ctx); info != nil && info.pattern != "" {
		attrs = append(attrs, attribute.String("http.route", info.pattern))
	}
	if id := RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String("http.request.id", id))
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

// nonRecording keeps End on a borrowed parent span from closing it.
func nonRecording(parent trace.Span) trace.Span {
	return trace.SpanFromContext(trace.ContextWithSpanContext(context.Background(), parent.SpanContext()))
}
