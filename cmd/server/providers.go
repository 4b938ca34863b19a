package main

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/janhq/media-gateway/internal/config"
	domain "github.com/janhq/media-gateway/internal/domain/media"
	"github.com/janhq/media-gateway/internal/domain/multipart"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
	"github.com/janhq/media-gateway/internal/domain/signing"
	"github.com/janhq/media-gateway/internal/domain/thumbnail"
	"github.com/janhq/media-gateway/internal/infrastructure/database"
	"github.com/janhq/media-gateway/internal/infrastructure/metrics"
	"github.com/janhq/media-gateway/internal/infrastructure/storage"
)

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func provideSQLDB(db *gorm.DB) (*sql.DB, error) {
	return db.DB()
}

// provideStorage creates the configured storage backend wrapped with metrics and tracing.
func provideStorage(ctx context.Context, cfg *config.Config, signer *storage.URLSigner, log zerolog.Logger) (objectstore.Backend, error) {
	backend, err := storage.NewFromConfig(ctx, cfg, signer, log)
	if err != nil {
		return nil, err
	}
	return storage.NewInstrumented(cfg.StorageBackend, backend), nil
}

func provideDestination(cfg *config.Config) objectstore.Destination {
	return objectstore.Destination{Bucket: cfg.S3Bucket, Visibility: objectstore.VisibilityPrivate}
}

func provideEngine(cfg *config.Config, backend objectstore.Backend, log zerolog.Logger) *multipart.Engine {
	return multipart.NewEngine(backend, multipart.Options{
		ChunkSize:    cfg.ChunkSize,
		AbortTimeout: cfg.AbortTimeout,
		Hooks: multipart.Hooks{
			SessionFinished: func(state multipart.State, parts int) {
				metrics.RecordMultipartSession(state.String(), parts)
			},
			AbortFailed: func(error) {
				metrics.RecordAbortFailure()
			},
		},
	}, log)
}

// provideThumbnails returns nil when thumbnails are disabled.
func provideThumbnails(cfg *config.Config, backend objectstore.Backend, log zerolog.Logger) *thumbnail.Generator {
	if !cfg.ThumbnailsEnabled {
		return nil
	}
	return thumbnail.NewGenerator(backend, thumbnail.Options{
		MaxSize:   cfg.ThumbnailMaxSize,
		Quality:   cfg.ThumbnailQuality,
		MaxPixels: cfg.ThumbnailMaxPixels,
		OnOutcome: metrics.RecordThumbnail,
	}, log)
}

func provideHooks() domain.Hooks {
	return domain.Hooks{CleanupFailed: metrics.RecordCleanupFailure}
}

func provideIssuer(cfg *config.Config, backend objectstore.Backend) *signing.Issuer {
	return signing.NewIssuer(backend, cfg.S3Bucket, cfg.SignedURLTTL, cfg.SignedURLMaxTTL)
}
