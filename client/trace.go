package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader carries the trace id of the outgoing call, or a random
// uuid when the call is not part of a valid trace.
const RequestIDHeader = "X-Request-Id"

// startSpan opens the client span for req.
func (c *Client) startSpan(req *http.Request) (context.Context, trace.Span) {
	ctx, span := c.tracer.Start(req.Context(), "assinafy.request", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
	)

	return ctx, span
}

// injectHeaders writes the propagation headers and request id into req.
func injectHeaders(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if req.Header.Get(RequestIDHeader) != "" {
		return
	}

	traceID := trace.SpanContextFromContext(ctx).TraceID()
	id := traceID.String()
	if !traceID.IsValid() {
		id = uuid.New().String()
	}

	req.Header.Set(RequestIDHeader, id)
}

func endSpan(span trace.Span, statusCode int, err error) {
	if statusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
