package storage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// NewSignerFromConfig returns the file URL signer for the local and memory
// backends, and nil for backends with native presigning.
func NewSignerFromConfig(cfg *config.Config) (*URLSigner, error) {
	if !cfg.UsesSignedFileRoute() {
		return nil, nil
	}
	return NewURLSigner(cfg.URLSigningSecret, cfg.FilesBaseURL())
}

// NewFromConfig creates the storage backend selected by MEDIA_STORAGE_BACKEND.
func NewFromConfig(ctx context.Context, cfg *config.Config, signer *URLSigner, log zerolog.Logger) (objectstore.Backend, error) {
	switch {
	case cfg.IsLocalStorage():
		return NewLocalStorage(cfg, signer, log)
	case cfg.IsMemoryStorage():
		return NewMemoryStorage(signer, log), nil
	case cfg.IsMinioStorage():
		return NewMinioStorage(cfg, log)
	default:
		return NewS3Storage(ctx, cfg, log)
	}
}
