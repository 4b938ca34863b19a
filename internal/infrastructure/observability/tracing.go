package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/janhq/media-gateway"
)

// GetTracer returns the tracer for the media gateway.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// UploadAttributes returns common attributes for upload spans.
func UploadAttributes(filename, contentType, folder string, size int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("upload.filename", filename),
		attribute.String("upload.content_type", contentType),
		attribute.String("upload.folder", folder),
		attribute.Int64("upload.size", size),
	}
}

// StartUploadSpan starts a new span for one file upload.
func StartUploadSpan(ctx context.Context, filename, contentType, folder string, size int64) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "media.upload",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(UploadAttributes(filename, contentType, folder, size)...),
	)
}

// StartStorageSpan starts a client span for one object storage call.
func StartStorageSpan(ctx context.Context, backend, operation, bucket, key string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "storage."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("storage.backend", backend),
			attribute.String("storage.bucket", bucket),
			attribute.String("storage.key", key),
		),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error, reason string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if reason != "" {
		span.SetAttributes(attribute.String("error.reason", reason))
	}
}

// AddPartEvent adds a committed-part event to a span.
func AddPartEvent(span trace.Span, partNumber int32, size int64) {
	span.AddEvent("multipart.part",
		trace.WithAttributes(
			attribute.Int("part.number", int(partNumber)),
			attribute.Int64("part.size", size),
		),
	)
}
