package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

const (
	multipartDir  = ".multipart"
	sessionTarget = "target"
)

// LocalStorage stores objects on the local filesystem under basePath/bucket/key.
// Multipart parts are staged under basePath/.multipart/<session> and only
// become visible once assembled and renamed into place.
type LocalStorage struct {
	basePath string
	signer   *URLSigner
	log      zerolog.Logger
	disabled bool
}

// NewLocalStorage creates a new local filesystem storage backend.
func NewLocalStorage(cfg *config.Config, signer *URLSigner, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if basePath == "" {
		logger.Warn().Msg("MEDIA_LOCAL_STORAGE_PATH is not set; local storage will be disabled")
		return &LocalStorage{
			log:      logger,
			disabled: true,
		}, nil
	}

	if err := os.MkdirAll(filepath.Join(basePath, multipartDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory: %w", err)
	}

	storage := &LocalStorage{
		basePath: basePath,
		signer:   signer,
		log:      logger,
	}

	logger.Info().
		Str("path", basePath).
		Str("base_url", cfg.LocalStorageBaseURL).
		Msg("local storage initialized")

	return storage, nil
}

func (l *LocalStorage) ensureEnabled() error {
	if l.disabled {
		return fmt.Errorf("%w: set MEDIA_LOCAL_STORAGE_PATH to enable", objectstore.ErrDisabled)
	}
	return nil
}

// objectPath resolves bucket/key inside basePath and refuses anything that escapes it.
func (l *LocalStorage) objectPath(bucket, key string) (string, error) {
	root := filepath.Join(l.basePath, filepath.FromSlash(bucket))
	full := filepath.Join(root, filepath.FromSlash(key))
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: invalid object key %q", objectstore.ErrRejected, key)
	}
	return full, nil
}

// sessionPath returns the staging directory of sessionID. A session only
// exists for the bucket and key it was initiated for.
func (l *LocalStorage) sessionPath(bucket, key, sessionID string) (string, error) {
	noSuchUpload := fmt.Errorf("%w: NoSuchUpload %s", objectstore.ErrNotFound, sessionID)
	if _, err := uuid.Parse(sessionID); err != nil {
		return "", noSuchUpload
	}
	dir := filepath.Join(l.basePath, multipartDir, sessionID)
	target, err := os.ReadFile(filepath.Join(dir, sessionTarget))
	if err != nil {
		if os.IsNotExist(err) {
			return "", noSuchUpload
		}
		return "", err
	}
	if string(target) != sessionTargetFor(bucket, key) {
		return "", noSuchUpload
	}
	return dir, nil
}

func sessionTargetFor(bucket, key string) string {
	return bucket + "\n" + key
}

func partFile(dir string, partNumber int32) string {
	return filepath.Join(dir, fmt.Sprintf("%05d.part", partNumber))
}

// writeAtomic streams body into a temp file next to dst and renames it into place.
func writeAtomic(dst string, body io.Reader) (int64, string, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, "", fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	hash := md5.New()
	written, err := io.Copy(io.MultiWriter(tmp, hash), body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, "", fmt.Errorf("failed to commit file: %w", err)
	}
	return written, hex.EncodeToString(hash.Sum(nil)), nil
}

func (l *LocalStorage) InitiateMultipart(ctx context.Context, bucket, key, contentType string) (string, error) {
	if err := l.ensureEnabled(); err != nil {
		return "", err
	}
	if _, err := l.objectPath(bucket, key); err != nil {
		return "", err
	}
	id := uuid.NewString()
	dir := filepath.Join(l.basePath, multipartDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, sessionTarget), []byte(sessionTargetFor(bucket, key)), 0644); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to record session target: %w", err)
	}
	return id, nil
}

func (l *LocalStorage) UploadPart(ctx context.Context, bucket, key, sessionID string, partNumber int32, body io.ReadSeeker, size int64) (string, error) {
	if err := l.ensureEnabled(); err != nil {
		return "", err
	}
	dir, err := l.sessionPath(bucket, key, sessionID)
	if err != nil {
		return "", err
	}
	written, etag, err := writeAtomic(partFile(dir, partNumber), io.LimitReader(body, size))
	if err != nil {
		return "", err
	}
	if written != size {
		return "", fmt.Errorf("%w: part %d has %d bytes, declared %d", objectstore.ErrRejected, partNumber, written, size)
	}
	return etag, nil
}

func (l *LocalStorage) CompleteMultipart(ctx context.Context, bucket, key, sessionID string, parts []objectstore.CompletedPart) (string, error) {
	if err := l.ensureEnabled(); err != nil {
		return "", err
	}
	dir, err := l.sessionPath(bucket, key, sessionID)
	if err != nil {
		return "", err
	}
	dst, err := l.objectPath(bucket, key)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: completion requires at least one part", objectstore.ErrRejected)
	}
	for i := 1; i < len(parts); i++ {
		if parts[i].PartNumber <= parts[i-1].PartNumber {
			return "", fmt.Errorf("%w: InvalidPartOrder at part %d", objectstore.ErrRejected, parts[i].PartNumber)
		}
	}

	readers := make([]io.Reader, 0, len(parts))
	for _, p := range parts {
		f, err := os.Open(partFile(dir, p.PartNumber))
		if err != nil {
			return "", fmt.Errorf("%w: InvalidPart %d", objectstore.ErrRejected, p.PartNumber)
		}
		defer f.Close()
		if sum, err := fileMD5(f); err != nil || sum != p.ETag {
			return "", fmt.Errorf("%w: InvalidPart %d", objectstore.ErrRejected, p.PartNumber)
		}
		readers = append(readers, f)
	}

	written, _, err := writeAtomic(dst, io.MultiReader(readers...))
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(dir); err != nil {
		l.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to remove multipart staging directory")
	}

	l.log.Debug().
		Str("key", key).
		Int("parts", len(parts)).
		Int64("bytes", written).
		Msg("multipart object assembled in local storage")
	return dst, nil
}

// fileMD5 hashes f and rewinds it.
func fileMD5(f *os.File) (string, error) {
	hash := md5.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func (l *LocalStorage) AbortMultipart(ctx context.Context, bucket, key, sessionID string) error {
	if err := l.ensureEnabled(); err != nil {
		return err
	}
	dir, err := l.sessionPath(bucket, key, sessionID)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// PutObject stores a file to the local filesystem.
func (l *LocalStorage) PutObject(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	if err := l.ensureEnabled(); err != nil {
		return "", err
	}
	dst, err := l.objectPath(bucket, key)
	if err != nil {
		return "", err
	}
	written, etag, err := writeAtomic(dst, io.LimitReader(body, size))
	if err != nil {
		return "", err
	}

	l.log.Debug().
		Str("key", key).
		Int64("bytes", written).
		Msg("file uploaded to local storage")

	return etag, nil
}

// GetObject reads a file from the local filesystem.
func (l *LocalStorage) GetObject(ctx context.Context, bucket, key string) (*objectstore.Object, error) {
	if err := l.ensureEnabled(); err != nil {
		return nil, err
	}
	fullPath, err := l.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", objectstore.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &objectstore.Object{
		Body:          file,
		ContentType:   detectContentTypeFromPath(fullPath),
		ContentLength: info.Size(),
	}, nil
}

func (l *LocalStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := l.ensureEnabled(); err != nil {
		return err
	}
	fullPath, err := l.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PresignGet returns a signed URL served by the gateway's /v1/files route.
func (l *LocalStorage) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration, overrides objectstore.ResponseOverrides) (string, error) {
	if err := l.ensureEnabled(); err != nil {
		return "", err
	}
	if l.signer == nil {
		return "", fmt.Errorf("%w: MEDIA_URL_SIGNING_SECRET is not set", objectstore.ErrDisabled)
	}
	return l.signer.Sign(bucket, key, ttl, overrides)
}

// Health checks if the storage directory is accessible.
func (l *LocalStorage) Health(ctx context.Context) error {
	if l.disabled {
		return nil
	}

	testFile := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(testFile)

	return nil
}

// detectContentTypeFromPath attempts to determine content type from file extension.
func detectContentTypeFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".svg":
		return "image/svg+xml"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".avi":
		return "video/x-msvideo"
	case ".mkv":
		return "video/x-matroska"
	default:
		return "application/octet-stream"
	}
}
