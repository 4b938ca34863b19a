package storage

import (
	"context"
	"io"
	"time"

	"github.com/janhq/media-gateway/internal/domain/objectstore"
	"github.com/janhq/media-gateway/internal/infrastructure/metrics"
	"github.com/janhq/media-gateway/internal/infrastructure/observability"
)

// Instrumented wraps a backend with per-operation metrics and client spans.
type Instrumented struct {
	name string
	next objectstore.Backend
}

func NewInstrumented(name string, next objectstore.Backend) *Instrumented {
	return &Instrumented{name: name, next: next}
}

// Unwrap returns the decorated backend.
func (i *Instrumented) Unwrap() objectstore.Backend {
	return i.next
}

func (i *Instrumented) observe(ctx context.Context, op, bucket, key string, fn func(context.Context) error) {
	ctx, span := observability.StartStorageSpan(ctx, i.name, op, bucket, key)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	status := "success"
	if err != nil {
		status = "error"
		if objectstore.IsNotFound(err) {
			status = "not_found"
		}
		observability.RecordError(span, err, status)
	}
	metrics.RecordStorageOperation(i.name, op, status, time.Since(start).Seconds())
}

func (i *Instrumented) InitiateMultipart(ctx context.Context, bucket, key, contentType string) (id string, err error) {
	i.observe(ctx, "initiate_multipart", bucket, key, func(ctx context.Context) error {
		id, err = i.next.InitiateMultipart(ctx, bucket, key, contentType)
		return err
	})
	return id, err
}

func (i *Instrumented) UploadPart(ctx context.Context, bucket, key, sessionID string, partNumber int32, body io.ReadSeeker, size int64) (etag string, err error) {
	i.observe(ctx, "upload_part", bucket, key, func(ctx context.Context) error {
		etag, err = i.next.UploadPart(ctx, bucket, key, sessionID, partNumber, body, size)
		return err
	})
	return etag, err
}

func (i *Instrumented) CompleteMultipart(ctx context.Context, bucket, key, sessionID string, parts []objectstore.CompletedPart) (location string, err error) {
	i.observe(ctx, "complete_multipart", bucket, key, func(ctx context.Context) error {
		location, err = i.next.CompleteMultipart(ctx, bucket, key, sessionID, parts)
		return err
	})
	return location, err
}

func (i *Instrumented) AbortMultipart(ctx context.Context, bucket, key, sessionID string) (err error) {
	i.observe(ctx, "abort_multipart", bucket, key, func(ctx context.Context) error {
		err = i.next.AbortMultipart(ctx, bucket, key, sessionID)
		return err
	})
	return err
}

func (i *Instrumented) PutObject(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) (etag string, err error) {
	i.observe(ctx, "put_object", bucket, key, func(ctx context.Context) error {
		etag, err = i.next.PutObject(ctx, bucket, key, body, size, contentType)
		return err
	})
	return etag, err
}

func (i *Instrumented) GetObject(ctx context.Context, bucket, key string) (obj *objectstore.Object, err error) {
	i.observe(ctx, "get_object", bucket, key, func(ctx context.Context) error {
		obj, err = i.next.GetObject(ctx, bucket, key)
		return err
	})
	return obj, err
}

func (i *Instrumented) DeleteObject(ctx context.Context, bucket, key string) (err error) {
	i.observe(ctx, "delete_object", bucket, key, func(ctx context.Context) error {
		err = i.next.DeleteObject(ctx, bucket, key)
		return err
	})
	return err
}

func (i *Instrumented) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration, overrides objectstore.ResponseOverrides) (url string, err error) {
	start := time.Now()
	i.observe(ctx, "presign_get", bucket, key, func(ctx context.Context) error {
		url, err = i.next.PresignGet(ctx, bucket, key, ttl, overrides)
		return err
	})
	metrics.RecordPresign(time.Since(start).Seconds())
	return url, err
}

// Health delegates to the wrapped backend when it supports health checks.
func (i *Instrumented) Health(ctx context.Context) error {
	if checker, ok := i.next.(objectstore.HealthChecker); ok {
		return checker.Health(ctx)
	}
	return nil
}
