package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

func responseError(status int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
		Err:      errors.New(http.StatusText(status)),
	}
}

func TestClassifyS3Error(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantRejected bool
	}{
		{"no such key", &smithy.GenericAPIError{Code: "NoSuchKey"}, true, false},
		{"no such upload", &smithy.GenericAPIError{Code: "NoSuchUpload"}, true, false},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false, true},
		{"entity too small", &smithy.GenericAPIError{Code: "EntityTooSmall"}, false, true},
		{"slow down is transient", &smithy.GenericAPIError{Code: "SlowDown"}, false, false},
		{"http 404", responseError(http.StatusNotFound), true, false},
		{"http 403", responseError(http.StatusForbidden), false, true},
		{"http 429 is transient", responseError(http.StatusTooManyRequests), false, false},
		{"http 503 is transient", responseError(http.StatusServiceUnavailable), false, false},
		{"network error", errors.New("dial tcp: connection refused"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyS3Error(tt.err)
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.wantNotFound, objectstore.IsNotFound(got))
			assert.Equal(t, tt.wantRejected, objectstore.IsRejected(got))
		})
	}
	assert.NoError(t, classifyS3Error(nil))
}

func TestS3Endpoint(t *testing.T) {
	var opts s3.Options
	s3Endpoint("http://minio:9000", true)(&opts)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://minio:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)

	var bare s3.Options
	s3Endpoint("", false)(&bare)
	assert.Nil(t, bare.BaseEndpoint)
	assert.False(t, bare.UsePathStyle)
}

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	signer, err := NewURLSigner("secret", "http://localhost:8285/v1/files")
	require.NoError(t, err)
	local, err := NewLocalStorage(&config.Config{LocalStoragePath: t.TempDir()}, signer, zerolog.Nop())
	require.NoError(t, err)
	return local
}

func readAll(t *testing.T, obj *objectstore.Object) []byte {
	t.Helper()
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	return data
}

func TestLocalMultipartFlow(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)

	id, err := local.InitiateMultipart(ctx, "media", "feed/clip.mp4", "video/mp4")
	require.NoError(t, err)

	first, second := []byte(strings.Repeat("a", 64)), []byte("tail")
	etag1, err := local.UploadPart(ctx, "media", "feed/clip.mp4", id, 1, bytes.NewReader(first), int64(len(first)))
	require.NoError(t, err)
	etag2, err := local.UploadPart(ctx, "media", "feed/clip.mp4", id, 2, bytes.NewReader(second), int64(len(second)))
	require.NoError(t, err)

	_, err = local.GetObject(ctx, "media", "feed/clip.mp4")
	assert.True(t, objectstore.IsNotFound(err), "parts are invisible before completion")

	_, err = local.CompleteMultipart(ctx, "media", "feed/clip.mp4", id, []objectstore.CompletedPart{
		{PartNumber: 1, ETag: etag1},
		{PartNumber: 2, ETag: etag2},
	})
	require.NoError(t, err)

	obj, err := local.GetObject(ctx, "media", "feed/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", obj.ContentType)
	assert.Equal(t, int64(68), obj.ContentLength)
	assert.Equal(t, append(first, second...), readAll(t, obj))

	staged, err := os.ReadDir(filepath.Join(local.basePath, multipartDir))
	require.NoError(t, err)
	assert.Empty(t, staged, "staging directory is removed after completion")

	err = local.AbortMultipart(ctx, "media", "feed/clip.mp4", id)
	assert.True(t, objectstore.IsNotFound(err))
}

func TestLocalCompleteRejectsBadParts(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)

	id, err := local.InitiateMultipart(ctx, "media", "feed/clip.mp4", "video/mp4")
	require.NoError(t, err)
	etag1, err := local.UploadPart(ctx, "media", "feed/clip.mp4", id, 1, strings.NewReader("one"), 3)
	require.NoError(t, err)
	etag2, err := local.UploadPart(ctx, "media", "feed/clip.mp4", id, 2, strings.NewReader("two"), 3)
	require.NoError(t, err)

	tests := []struct {
		name  string
		parts []objectstore.CompletedPart
	}{
		{"empty list", nil},
		{"descending", []objectstore.CompletedPart{{PartNumber: 2, ETag: etag2}, {PartNumber: 1, ETag: etag1}}},
		{"duplicate", []objectstore.CompletedPart{{PartNumber: 1, ETag: etag1}, {PartNumber: 1, ETag: etag1}}},
		{"wrong etag", []objectstore.CompletedPart{{PartNumber: 1, ETag: etag2}}},
		{"missing part", []objectstore.CompletedPart{{PartNumber: 1, ETag: etag1}, {PartNumber: 3, ETag: etag1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := local.CompleteMultipart(ctx, "media", "feed/clip.mp4", id, tt.parts)
			assert.True(t, objectstore.IsRejected(err), "got %v", err)
		})
	}

	require.NoError(t, local.AbortMultipart(ctx, "media", "feed/clip.mp4", id))
	_, err = local.GetObject(ctx, "media", "feed/clip.mp4")
	assert.True(t, objectstore.IsNotFound(err))
}

func TestLocalUploadPartShortBody(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	id, err := local.InitiateMultipart(ctx, "media", "feed/clip.mp4", "video/mp4")
	require.NoError(t, err)

	_, err = local.UploadPart(ctx, "media", "feed/clip.mp4", id, 1, strings.NewReader("abc"), 10)
	assert.True(t, objectstore.IsRejected(err))

	_, err = local.UploadPart(ctx, "media", "feed/clip.mp4", "not-a-session", 1, strings.NewReader("abc"), 3)
	assert.True(t, objectstore.IsNotFound(err))
}

func TestLocalSessionBoundToTarget(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	id, err := local.InitiateMultipart(ctx, "media", "feed/clip.mp4", "video/mp4")
	require.NoError(t, err)
	etag, err := local.UploadPart(ctx, "media", "feed/clip.mp4", id, 1, strings.NewReader("one"), 3)
	require.NoError(t, err)

	tests := []struct {
		name   string
		bucket string
		key    string
	}{
		{"other key", "media", "feed/other.mp4"},
		{"other bucket", "archive", "feed/clip.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := local.UploadPart(ctx, tt.bucket, tt.key, id, 2, strings.NewReader("two"), 3)
			assert.True(t, objectstore.IsNotFound(err), "upload part: %v", err)

			_, err = local.CompleteMultipart(ctx, tt.bucket, tt.key, id, []objectstore.CompletedPart{{PartNumber: 1, ETag: etag}})
			assert.True(t, objectstore.IsNotFound(err), "complete: %v", err)
			_, err = local.GetObject(ctx, tt.bucket, tt.key)
			assert.True(t, objectstore.IsNotFound(err))

			err = local.AbortMultipart(ctx, tt.bucket, tt.key, id)
			assert.True(t, objectstore.IsNotFound(err), "abort: %v", err)
		})
	}

	_, err = local.CompleteMultipart(ctx, "media", "feed/clip.mp4", id, []objectstore.CompletedPart{{PartNumber: 1, ETag: etag}})
	require.NoError(t, err, "the session survives requests for other targets")
	obj, err := local.GetObject(ctx, "media", "feed/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), readAll(t, obj))
}

func TestClassifyMinioError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantRejected bool
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, true, false},
		{"no such upload", minio.ErrorResponse{Code: "NoSuchUpload", StatusCode: http.StatusNotFound}, true, false},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, false, true},
		{"invalid part", minio.ErrorResponse{Code: "InvalidPart", StatusCode: http.StatusBadRequest}, false, true},
		{"entity too small", minio.ErrorResponse{Code: "EntityTooSmall", StatusCode: http.StatusBadRequest}, false, true},
		{"slow down is transient", minio.ErrorResponse{Code: "SlowDown", StatusCode: http.StatusServiceUnavailable}, false, false},
		{"internal error is transient", minio.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError}, false, false},
		{"unknown 404", minio.ErrorResponse{StatusCode: http.StatusNotFound}, true, false},
		{"unknown 400", minio.ErrorResponse{StatusCode: http.StatusBadRequest}, false, true},
		{"request timeout is transient", minio.ErrorResponse{StatusCode: http.StatusRequestTimeout}, false, false},
		{"throttled is transient", minio.ErrorResponse{StatusCode: http.StatusTooManyRequests}, false, false},
		{"network error", errors.New("dial tcp: connection refused"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyMinioError(tt.err)
			require.Error(t, got)
			assert.Contains(t, got.Error(), tt.err.Error())
			assert.Equal(t, tt.wantNotFound, objectstore.IsNotFound(got))
			assert.Equal(t, tt.wantRejected, objectstore.IsRejected(got))

			var resp minio.ErrorResponse
			if errors.As(tt.err, &resp) {
				require.True(t, errors.As(got, &resp), "the minio response stays reachable")
				assert.Equal(t, tt.err.(minio.ErrorResponse).Code, resp.Code)
			}
		})
	}
	assert.NoError(t, classifyMinioError(nil))
}

func TestLocalObjectLifecycle(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)

	etag, err := local.PutObject(ctx, "media", "general/a.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Len(t, etag, 32)

	obj, err := local.GetObject(ctx, "media", "general/a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, []byte("png-bytes"), readAll(t, obj))

	url, err := local.PresignGet(ctx, "media", "general/a.png", time.Minute, objectstore.ResponseOverrides{ContentType: "image/png"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8285/v1/files/general/a.png?token="))

	require.NoError(t, local.DeleteObject(ctx, "media", "general/a.png"))
	require.NoError(t, local.DeleteObject(ctx, "media", "general/a.png"), "delete is idempotent")
	_, err = local.GetObject(ctx, "media", "general/a.png")
	assert.True(t, objectstore.IsNotFound(err))

	assert.NoError(t, local.Health(ctx))
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	local := newLocal(t)
	for _, key := range []string{"../outside.txt", "feed/../../outside.txt", ""} {
		_, err := local.PutObject(context.Background(), "media", key, strings.NewReader("x"), 1, "text/plain")
		assert.True(t, objectstore.IsRejected(err), "key %q", key)
	}
}

func TestLocalDisabledWithoutPath(t *testing.T) {
	local, err := NewLocalStorage(&config.Config{}, nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = local.PutObject(context.Background(), "media", "a.jpg", strings.NewReader("x"), 1, "image/jpeg")
	assert.ErrorIs(t, err, objectstore.ErrDisabled)
	assert.True(t, objectstore.IsRejected(err))
	assert.NoError(t, local.Health(context.Background()))
}

func TestMemoryStorageMultipart(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage(nil, zerolog.Nop())

	id, err := mem.InitiateMultipart(ctx, "media", "feed/x.mp4", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, 1, mem.OpenSessions())

	etag, err := mem.UploadPart(ctx, "media", "feed/x.mp4", id, 1, strings.NewReader("abc"), 3)
	require.NoError(t, err)

	_, err = mem.CompleteMultipart(ctx, "media", "feed/x.mp4", id, []objectstore.CompletedPart{{PartNumber: 1, ETag: "bogus"}})
	assert.True(t, objectstore.IsRejected(err))

	_, err = mem.UploadPart(ctx, "media", "feed/other.mp4", id, 2, strings.NewReader("abc"), 3)
	assert.True(t, objectstore.IsNotFound(err), "a session is bound to its key")

	_, err = mem.CompleteMultipart(ctx, "media", "feed/x.mp4", id, []objectstore.CompletedPart{{PartNumber: 1, ETag: etag}})
	require.NoError(t, err)
	assert.Zero(t, mem.OpenSessions())

	obj, err := mem.GetObject(ctx, "media", "feed/x.mp4")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), readAll(t, obj))

	_, err = mem.PresignGet(ctx, "media", "feed/x.mp4", time.Minute, objectstore.ResponseOverrides{})
	assert.ErrorIs(t, err, objectstore.ErrDisabled)
}

func TestURLSigner(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	signer, err := NewURLSigner("secret", "http://files.local/v1/files/")
	require.NoError(t, err)
	signer.WithClock(func() time.Time { return now })

	url, err := signer.Sign("media", "feed/my photo.jpg", time.Hour, objectstore.ResponseOverrides{ContentType: "image/jpeg"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://files.local/v1/files/feed/my%20photo.jpg?token="))

	token := url[strings.Index(url, "token=")+len("token="):]
	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "feed/my photo.jpg", claims.Key())
	assert.Equal(t, "media", claims.Bucket)
	assert.Equal(t, "image/jpeg", claims.ContentType)

	other, err := NewURLSigner("other-secret", "http://files.local/v1/files")
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = signer.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = signer.Sign("media", "a.jpg", 0, objectstore.ResponseOverrides{})
	assert.True(t, objectstore.IsRejected(err))

	_, err = NewURLSigner(" ", "http://x")
	assert.Error(t, err)
}

func TestInstrumentedPassesThrough(t *testing.T) {
	ctx := context.Background()
	backend := NewInstrumented("memory", NewMemoryStorage(nil, zerolog.Nop()))

	_, err := backend.PutObject(ctx, "media", "a.jpg", strings.NewReader("x"), 1, "image/jpeg")
	require.NoError(t, err)

	obj, err := backend.GetObject(ctx, "media", "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), readAll(t, obj))

	_, err = backend.GetObject(ctx, "media", "missing.jpg")
	assert.True(t, objectstore.IsNotFound(err))
	assert.IsType(t, &MemoryStorage{}, backend.Unwrap())
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{StorageBackend: "memory", URLSigningSecret: "secret", HTTPPort: 8285}
		signer, err := NewSignerFromConfig(cfg)
		require.NoError(t, err)
		require.NotNil(t, signer)

		backend, err := NewFromConfig(ctx, cfg, signer, zerolog.Nop())
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, backend)

		url, err := backend.PresignGet(ctx, "media", "feed/a.png", time.Minute, objectstore.ResponseOverrides{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:8285/v1/files/feed/a.png?token="))
	})

	t.Run("local", func(t *testing.T) {
		cfg := &config.Config{StorageBackend: "local", URLSigningSecret: "secret", LocalStoragePath: t.TempDir()}
		signer, err := NewSignerFromConfig(cfg)
		require.NoError(t, err)

		backend, err := NewFromConfig(ctx, cfg, signer, zerolog.Nop())
		require.NoError(t, err)
		assert.IsType(t, &LocalStorage{}, backend)
	})

	t.Run("s3 has no file signer", func(t *testing.T) {
		signer, err := NewSignerFromConfig(&config.Config{StorageBackend: "s3"})
		require.NoError(t, err)
		assert.Nil(t, signer)
	})
}
