package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// MinioStorage talks to MinIO (or any S3-compatible server) through minio-go's
// low-level Core API, which exposes the individual multipart calls.
type MinioStorage struct {
	bucket   string
	core     *minio.Core
	log      zerolog.Logger
	disabled bool
}

func NewMinioStorage(cfg *config.Config, log zerolog.Logger) (*MinioStorage, error) {
	logger := log.With().Str("component", "minio-storage").Logger()
	storage := &MinioStorage{
		bucket: strings.TrimSpace(cfg.S3Bucket),
		log:    logger,
	}

	endpoint := strings.TrimSpace(cfg.MinioEndpoint)
	if storage.bucket == "" || endpoint == "" || cfg.S3AccessKeyID == "" || cfg.S3SecretKey == "" {
		logger.Warn().Msg("MEDIA_MINIO_ENDPOINT, MEDIA_S3_BUCKET or credentials are not set; media uploads will be disabled until configured")
		storage.disabled = true
		return storage, nil
	}

	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.S3AccessKeyID, cfg.S3SecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	storage.core = core

	logger.Info().Str("endpoint", endpoint).Bool("ssl", cfg.MinioUseSSL).Msg("minio storage initialized")
	return storage, nil
}

func (m *MinioStorage) ensureEnabled() error {
	if m.disabled {
		return fmt.Errorf("%w: set MEDIA_MINIO_* to enable uploads", objectstore.ErrDisabled)
	}
	return nil
}

func classifyMinioError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch {
	case s3NotFoundCodes[resp.Code]:
		return fmt.Errorf("%w: %w", objectstore.ErrNotFound, err)
	case s3RejectedCodes[resp.Code]:
		return fmt.Errorf("%w: %w", objectstore.ErrRejected, err)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", objectstore.ErrNotFound, err)
	case resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", objectstore.ErrRejected, err)
	}
	return err
}

func (m *MinioStorage) InitiateMultipart(ctx context.Context, bucket, key, contentType string) (string, error) {
	if err := m.ensureEnabled(); err != nil {
		return "", err
	}
	id, err := m.core.NewMultipartUpload(ctx, bucket, key, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", classifyMinioError(err)
	}
	return id, nil
}

func (m *MinioStorage) UploadPart(ctx context.Context, bucket, key, sessionID string, partNumber int32, body io.ReadSeeker, size int64) (string, error) {
	if err := m.ensureEnabled(); err != nil {
		return "", err
	}
	part, err := m.core.PutObjectPart(ctx, bucket, key, sessionID, int(partNumber), body, size, minio.PutObjectPartOptions{})
	if err != nil {
		return "", classifyMinioError(err)
	}
	return part.ETag, nil
}

func (m *MinioStorage) CompleteMultipart(ctx context.Context, bucket, key, sessionID string, parts []objectstore.CompletedPart) (string, error) {
	if err := m.ensureEnabled(); err != nil {
		return "", err
	}
	completed := make([]minio.CompletePart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, minio.CompletePart{PartNumber: int(p.PartNumber), ETag: p.ETag})
	}
	info, err := m.core.CompleteMultipartUpload(ctx, bucket, key, sessionID, completed, minio.PutObjectOptions{})
	if err != nil {
		return "", classifyMinioError(err)
	}
	return info.Location, nil
}

func (m *MinioStorage) AbortMultipart(ctx context.Context, bucket, key, sessionID string) error {
	if err := m.ensureEnabled(); err != nil {
		return err
	}
	return classifyMinioError(m.core.AbortMultipartUpload(ctx, bucket, key, sessionID))
}

func (m *MinioStorage) PutObject(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	if err := m.ensureEnabled(); err != nil {
		return "", err
	}
	info, err := m.core.Client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", classifyMinioError(err)
	}
	return info.ETag, nil
}

func (m *MinioStorage) GetObject(ctx context.Context, bucket, key string) (*objectstore.Object, error) {
	if err := m.ensureEnabled(); err != nil {
		return nil, err
	}
	body, info, _, err := m.core.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyMinioError(err)
	}
	return &objectstore.Object{
		Body:          body,
		ContentType:   info.ContentType,
		ContentLength: info.Size,
	}, nil
}

func (m *MinioStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := m.ensureEnabled(); err != nil {
		return err
	}
	return classifyMinioError(m.core.Client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}))
}

func (m *MinioStorage) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration, overrides objectstore.ResponseOverrides) (string, error) {
	if err := m.ensureEnabled(); err != nil {
		return "", err
	}
	params := url.Values{}
	if overrides.ContentType != "" {
		params.Set("response-content-type", overrides.ContentType)
	}
	if overrides.ContentDisposition != "" {
		params.Set("response-content-disposition", overrides.ContentDisposition)
	}
	u, err := m.core.Client.PresignedGetObject(ctx, bucket, key, ttl, params)
	if err != nil {
		return "", classifyMinioError(err)
	}
	return u.String(), nil
}

// Health checks that the configured bucket exists.
func (m *MinioStorage) Health(ctx context.Context) error {
	if m.disabled {
		return nil
	}
	ok, err := m.core.Client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}
