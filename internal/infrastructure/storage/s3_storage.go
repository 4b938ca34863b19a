package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// S3 error codes that mean the object or session does not exist.
var s3NotFoundCodes = map[string]bool{
	"NoSuchKey":    true,
	"NotFound":     true,
	"NoSuchUpload": true,
}

// S3 error codes that will fail the same way on retry.
var s3RejectedCodes = map[string]bool{
	"AccessDenied":          true,
	"InvalidAccessKeyId":    true,
	"SignatureDoesNotMatch": true,
	"NoSuchBucket":          true,
	"InvalidBucketName":     true,
	"InvalidArgument":       true,
	"InvalidRequest":        true,
	"InvalidPart":           true,
	"InvalidPartOrder":      true,
	"EntityTooSmall":        true,
	"EntityTooLarge":        true,
	"MalformedXML":          true,
	"KeyTooLongError":       true,
}

// S3Storage talks to S3-compatible storage through aws-sdk-go-v2.
type S3Storage struct {
	bucket    string
	client    *s3.Client
	presigner *s3.PresignClient
	log       zerolog.Logger
	disabled  bool
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()
	storage := &S3Storage{
		bucket: strings.TrimSpace(cfg.S3Bucket),
		log:    logger,
	}

	accessKey := strings.TrimSpace(cfg.S3AccessKeyID)
	secretKey := strings.TrimSpace(cfg.S3SecretKey)
	if storage.bucket == "" || accessKey == "" || secretKey == "" {
		logger.Warn().Msg("MEDIA_S3_BUCKET or credentials are not set; media uploads will be disabled until configured")
		storage.disabled = true
		return storage, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	storage.client = s3.NewFromConfig(awsCfg, s3Endpoint(cfg.S3Endpoint, cfg.S3UsePathStyle))

	// Presigned URLs are signed for the host clients will use.
	presignEndpoint := cfg.S3Endpoint
	if cfg.S3PublicEndpoint != "" {
		presignEndpoint = cfg.S3PublicEndpoint
	}
	storage.presigner = s3.NewPresignClient(s3.NewFromConfig(awsCfg, s3Endpoint(presignEndpoint, cfg.S3UsePathStyle)))

	logger.Info().
		Str("endpoint", cfg.S3Endpoint).
		Str("public_endpoint", cfg.S3PublicEndpoint).
		Str("region", cfg.S3Region).
		Msg("s3 storage initialized")
	return storage, nil
}

func s3Endpoint(endpoint string, usePathStyle bool) func(*s3.Options) {
	return func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = usePathStyle
	}
}

func (s *S3Storage) ensureEnabled() error {
	if s.disabled {
		return fmt.Errorf("%w: set MEDIA_S3_* to enable uploads", objectstore.ErrDisabled)
	}
	return nil
}

// classifyS3Error maps SDK errors onto objectstore sentinels. Unknown errors
// (network, throttling, 5xx) stay unwrapped and are treated as transient.
func classifyS3Error(err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case s3NotFoundCodes[code]:
			return fmt.Errorf("%w: %w", objectstore.ErrNotFound, err)
		case s3RejectedCodes[code]:
			return fmt.Errorf("%w: %w", objectstore.ErrRejected, err)
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		status := respErr.HTTPStatusCode()
		if status == http.StatusNotFound {
			return fmt.Errorf("%w: %w", objectstore.ErrNotFound, err)
		}
		if status >= 400 && status < 500 && status != http.StatusRequestTimeout && status != http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", objectstore.ErrRejected, err)
		}
	}
	return err
}

func (s *S3Storage) InitiateMultipart(ctx context.Context, bucket, key, contentType string) (string, error) {
	if err := s.ensureEnabled(); err != nil {
		return "", err
	}
	out, err := s.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", classifyS3Error(err)
	}
	return aws.ToString(out.UploadId), nil
}

func (s *S3Storage) UploadPart(ctx context.Context, bucket, key, sessionID string, partNumber int32, body io.ReadSeeker, size int64) (string, error) {
	if err := s.ensureEnabled(); err != nil {
		return "", err
	}
	out, err := s.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		UploadId:      aws.String(sessionID),
		PartNumber:    aws.Int32(partNumber),
		Body:          body,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", classifyS3Error(err)
	}
	return aws.ToString(out.ETag), nil
}

func (s *S3Storage) CompleteMultipart(ctx context.Context, bucket, key, sessionID string, parts []objectstore.CompletedPart) (string, error) {
	if err := s.ensureEnabled(); err != nil {
		return "", err
	}
	completed := make([]types.CompletedPart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, types.CompletedPart{
			ETag:       aws.String(p.ETag),
			PartNumber: aws.Int32(p.PartNumber),
		})
	}
	out, err := s.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(sessionID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return "", classifyS3Error(err)
	}
	return aws.ToString(out.Location), nil
}

func (s *S3Storage) AbortMultipart(ctx context.Context, bucket, key, sessionID string) error {
	if err := s.ensureEnabled(); err != nil {
		return err
	}
	_, err := s.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(sessionID),
	})
	return classifyS3Error(err)
}

func (s *S3Storage) PutObject(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	if err := s.ensureEnabled(); err != nil {
		return "", err
	}
	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", classifyS3Error(err)
	}
	return aws.ToString(out.ETag), nil
}

func (s *S3Storage) GetObject(ctx context.Context, bucket, key string) (*objectstore.Object, error) {
	if err := s.ensureEnabled(); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err)
	}
	return &objectstore.Object{
		Body:          out.Body,
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
	}, nil
}

func (s *S3Storage) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := s.ensureEnabled(); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return classifyS3Error(err)
}

func (s *S3Storage) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration, overrides objectstore.ResponseOverrides) (string, error) {
	if err := s.ensureEnabled(); err != nil {
		return "", err
	}
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if overrides.ContentType != "" {
		input.ResponseContentType = aws.String(overrides.ContentType)
	}
	if overrides.ContentDisposition != "" {
		input.ResponseContentDisposition = aws.String(overrides.ContentDisposition)
	}
	req, err := s.presigner.PresignGetObject(ctx, input, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", classifyS3Error(err)
	}
	return req.URL, nil
}

// Health performs a HeadBucket request against the configured bucket.
func (s *S3Storage) Health(ctx context.Context) error {
	if s.disabled {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
