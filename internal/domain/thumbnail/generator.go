// Package thumbnail derives bounded preview images from uploaded rasters.
package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// Outcome labels reported to Options.OnOutcome.
const (
	OutcomeGenerated = "generated"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

const (
	DefaultMaxSize   = 200
	DefaultQuality   = 80
	DefaultMaxPixels = 50_000_000

	contentTypeJPEG = "image/jpeg"
	formatJPEG      = "jpeg"
)

// eligibleTypes are the raster formats the generator can decode. SVG is
// vector and not rasterized.
var eligibleTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Asset is a derived thumbnail stored next to its primary object.
type Asset struct {
	Key         string `json:"key"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Options configures a Generator.
type Options struct {
	MaxSize   int
	Quality   int
	MaxPixels int
	OnOutcome func(outcome string)
}

// Generator creates thumbnails. Failures never propagate to the caller.
type Generator struct {
	backend objectstore.Backend
	opts    Options
	log     zerolog.Logger
}

func NewGenerator(backend objectstore.Backend, opts Options, log zerolog.Logger) *Generator {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultQuality
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	return &Generator{
		backend: backend,
		opts:    opts,
		log:     log.With().Str("component", "thumbnail-generator").Logger(),
	}
}

// Eligible reports whether contentType is a raster format the generator decodes.
func Eligible(contentType string) bool {
	return eligibleTypes[strings.ToLower(strings.TrimSpace(contentType))]
}

// KeyFor derives the thumbnail key for a primary key: {folder}/thumbnails/{id}.jpg.
func KeyFor(primaryKey string) string {
	dir, file := path.Split(primaryKey)
	id := strings.TrimSuffix(file, path.Ext(file))
	return path.Join(dir, "thumbnails", id+".jpg")
}

// Generate returns the stored thumbnail for src, or nil when the type is not
// eligible or any step fails.
func (g *Generator) Generate(ctx context.Context, dest objectstore.Destination, primaryKey, contentType string, src io.ReaderAt, size int64) *Asset {
	if !Eligible(contentType) {
		g.report(OutcomeSkipped)
		return nil
	}

	asset, err := g.generate(ctx, dest, primaryKey, src, size)
	if err != nil {
		g.log.Warn().
			Err(err).
			Str("event", "thumbnail_failed").
			Str("key", primaryKey).
			Str("content_type", contentType).
			Int64("bytes", size).
			Msg("thumbnail generation failed; continuing without derived asset")
		g.report(OutcomeFailed)
		return nil
	}
	g.report(OutcomeGenerated)
	return asset
}

func (g *Generator) generate(ctx context.Context, dest objectstore.Destination, primaryKey string, src io.ReaderAt, size int64) (*Asset, error) {
	cfg, _, err := image.DecodeConfig(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, fmt.Errorf("read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > g.opts.MaxPixels {
		return nil, fmt.Errorf("image dimensions %dx%d exceed %d pixels", cfg.Width, cfg.Height, g.opts.MaxPixels)
	}

	img, err := imaging.Decode(io.NewSectionReader(src, 0, size), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, g.opts.MaxSize, g.opts.MaxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(g.opts.Quality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	key := KeyFor(primaryKey)
	body := bytes.NewReader(buf.Bytes())
	if _, err := g.backend.PutObject(ctx, dest.Bucket, key, body, int64(buf.Len()), contentTypeJPEG); err != nil {
		return nil, fmt.Errorf("store thumbnail: %w", err)
	}

	bounds := thumb.Bounds()
	return &Asset{
		Key:         key,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Format:      formatJPEG,
		ContentType: contentTypeJPEG,
		Size:        int64(buf.Len()),
	}, nil
}

func (g *Generator) report(outcome string) {
	if g.opts.OnOutcome != nil {
		g.opts.OnOutcome(outcome)
	}
}
