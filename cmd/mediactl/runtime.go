package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/media"
	"github.com/janhq/media-gateway/internal/domain/multipart"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
	"github.com/janhq/media-gateway/internal/domain/signing"
	"github.com/janhq/media-gateway/internal/domain/thumbnail"
	"github.com/janhq/media-gateway/internal/infrastructure/logger"
	"github.com/janhq/media-gateway/internal/infrastructure/storage"
)

// runtime is the storage-only slice of the gateway.
type runtime struct {
	cfg      *config.Config
	log      zerolog.Logger
	backend  objectstore.Backend
	dest     objectstore.Destination
	ingestor *media.Ingestor
	issuer   *signing.Issuer
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func newRuntime(ctx context.Context, cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.LoadStorage()
	if err != nil {
		return nil, err
	}

	log := zerolog.Nop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log = logger.NewWithWriter(cfg, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	signer, err := storage.NewSignerFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	backend, err := storage.NewFromConfig(ctx, cfg, signer, log)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}

	dest := objectstore.Destination{Bucket: cfg.S3Bucket, Visibility: objectstore.VisibilityPrivate}
	engine := multipart.NewEngine(backend, multipart.Options{
		ChunkSize:    cfg.ChunkSize,
		AbortTimeout: cfg.AbortTimeout,
	}, log)

	var thumbs *thumbnail.Generator
	if cfg.ThumbnailsEnabled {
		thumbs = thumbnail.NewGenerator(backend, thumbnail.Options{
			MaxSize:   cfg.ThumbnailMaxSize,
			Quality:   cfg.ThumbnailQuality,
			MaxPixels: cfg.ThumbnailMaxPixels,
		}, log)
	}

	return &runtime{
		cfg:      cfg,
		log:      log,
		backend:  backend,
		dest:     dest,
		ingestor: media.NewIngestor(backend, engine, thumbs, dest, media.PolicyFromConfig(cfg), media.Hooks{}, log),
		issuer:   signing.NewIssuer(backend, cfg.S3Bucket, cfg.SignedURLTTL, cfg.SignedURLMaxTTL),
	}, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
