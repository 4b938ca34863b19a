// Package objectstore defines the storage capability set the upload engine depends on.
package objectstore

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when a key does not resolve to a committed object.
	ErrNotFound = errors.New("object not found")
	// ErrRejected marks a backend refusal that will not succeed on retry
	// (bad request, access denied, unknown session, entity too small).
	ErrRejected = errors.New("request rejected by storage backend")
	// ErrDisabled is returned by backends that were started without credentials.
	ErrDisabled = errors.New("storage backend is not configured")
)

// CompletedPart is one committed part of a multipart session.
type CompletedPart struct {
	PartNumber int32
	ETag       string
	Size       int64
}

// Object is a readable committed object.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// ResponseOverrides are headers a signed GET URL forces on the response.
type ResponseOverrides struct {
	ContentType        string
	ContentDisposition string
}

// Backend is the object-storage capability set. Keys are never visible to
// GetObject until a PutObject returns or a multipart session completes.
type Backend interface {
	InitiateMultipart(ctx context.Context, bucket, key, contentType string) (string, error)
	UploadPart(ctx context.Context, bucket, key, sessionID string, partNumber int32, body io.ReadSeeker, size int64) (string, error)
	CompleteMultipart(ctx context.Context, bucket, key, sessionID string, parts []CompletedPart) (string, error)
	AbortMultipart(ctx context.Context, bucket, key, sessionID string) error

	PutObject(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
	GetObject(ctx context.Context, bucket, key string) (*Object, error)
	DeleteObject(ctx context.Context, bucket, key string) error

	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration, overrides ResponseOverrides) (string, error)
}

// HealthChecker is implemented by backends that can probe their endpoint.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Visibility is the access policy of a destination bucket.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Destination selects where an upload lands.
type Destination struct {
	Bucket     string
	Visibility Visibility
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRejected reports whether err is a non-retryable backend refusal.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected) || errors.Is(err, ErrDisabled)
}
