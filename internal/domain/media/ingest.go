package media

import (
	"context"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/failure"
	"github.com/janhq/media-gateway/internal/domain/multipart"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
	"github.com/janhq/media-gateway/internal/domain/thumbnail"
)

const cleanupTimeout = 30 * time.Second

// Cleanup stages reported to Hooks.CleanupFailed.
const (
	CleanupStageObject    = "object"
	CleanupStageThumbnail = "thumbnail"
)

// Policy holds the validation and routing rules applied to every upload.
type Policy struct {
	MaxBytes        int64
	AllowedFolders  []string
	DefaultFolder   string
	AlwaysMultipart []string
	TempDir         string
}

// PolicyFromConfig builds the upload policy from service configuration.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		MaxBytes:        cfg.MaxMediaBytes,
		AllowedFolders:  cfg.AllowedFolders,
		DefaultFolder:   cfg.DefaultFolder,
		AlwaysMultipart: cfg.AlwaysMultipartTypes,
		TempDir:         cfg.TempDir,
	}
}

// Hooks receive best-effort cleanup outcomes. Nil fields are skipped.
type Hooks struct {
	CleanupFailed func(stage string)
}

// Stored is an object committed to the backend that has no metadata record yet.
type Stored struct {
	Key         string
	Folder      string
	Filename    string
	ContentType string
	MediaType   MediaType
	Size        int64
	Upload      *multipart.Result
	Thumbnail   *thumbnail.Asset
}

// Ingestor validates uploads, stores them through the engine and derives thumbnails.
type Ingestor struct {
	backend objectstore.Backend
	engine  *multipart.Engine
	thumbs  *thumbnail.Generator
	dest    objectstore.Destination
	policy  Policy
	hooks   Hooks
	log     zerolog.Logger
}

// NewIngestor wires an Ingestor. thumbs may be nil to disable thumbnails.
func NewIngestor(backend objectstore.Backend, engine *multipart.Engine, thumbs *thumbnail.Generator, dest objectstore.Destination, policy Policy, hooks Hooks, log zerolog.Logger) *Ingestor {
	if policy.DefaultFolder == "" && len(policy.AllowedFolders) > 0 {
		policy.DefaultFolder = policy.AllowedFolders[0]
	}
	if dest.Visibility == "" {
		dest.Visibility = objectstore.VisibilityPrivate
	}
	return &Ingestor{
		backend: backend,
		engine:  engine,
		thumbs:  thumbs,
		dest:    dest,
		policy:  policy,
		hooks:   hooks,
		log:     log.With().Str("component", "media-ingestor").Logger(),
	}
}

// Destination returns where the ingestor stores objects.
func (i *Ingestor) Destination() objectstore.Destination {
	return i.dest
}

// Ingest validates req, stores the payload and attempts a thumbnail. On error
// nothing is left reachable under the generated key.
func (i *Ingestor) Ingest(ctx context.Context, req UploadRequest) (*Stored, error) {
	folder, err := i.resolveFolder(req.Folder)
	if err != nil {
		return nil, err
	}
	if req.Visibility != "" && req.Visibility != objectstore.VisibilityPrivate {
		return nil, failure.Validation("visibility %q is not supported", req.Visibility)
	}

	src, err := openSource(req.Body, req.Size, i.policy.MaxBytes, i.engine.ChunkSize(), i.policy.TempDir)
	if err != nil {
		return nil, err
	}
	defer src.cleanup()

	if src.size == 0 {
		return nil, failure.Validation("file is empty")
	}

	contentType := resolveContentType(req.ContentType, src, src.size)
	mediaType, ok := allowedTypes[contentType]
	if !ok {
		return nil, failure.Validation("unsupported content type %q", contentType).
			WithDetails(map[string]any{"content_type": contentType})
	}

	key := NewObjectKey(folder, req.Filename, contentType)

	var result *multipart.Result
	if i.UsesMultipart(src.size, contentType) {
		result, err = i.engine.Upload(ctx, i.dest, key, contentType, src, src.size)
	} else {
		result, err = i.engine.Put(ctx, i.dest, key, contentType, src, src.size)
	}
	if err != nil {
		return nil, err
	}

	stored := &Stored{
		Key:         key,
		Folder:      folder,
		Filename:    displayName(req.Filename, key),
		ContentType: contentType,
		MediaType:   mediaType,
		Size:        src.size,
		Upload:      result,
	}
	if i.thumbs != nil {
		stored.Thumbnail = i.thumbs.Generate(ctx, i.dest, key, contentType, src, src.size)
	}

	i.log.Info().
		Str("key", key).
		Str("path", string(result.Path)).
		Str("content_type", contentType).
		Int64("bytes", src.size).
		Bool("thumbnail", stored.Thumbnail != nil).
		Msg("media stored")
	return stored, nil
}

// UsesMultipart reports whether an upload of size bytes goes through a multipart session.
func (i *Ingestor) UsesMultipart(size int64, contentType string) bool {
	return size > i.engine.ChunkSize() || slices.Contains(i.policy.AlwaysMultipart, contentType)
}

// Discard deletes a stored object and its thumbnail. Failures are logged and
// reported to hooks only.
func (i *Ingestor) Discard(ctx context.Context, stored *Stored) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	i.discard(cleanupCtx, CleanupStageObject, stored.Key)
	if stored.Thumbnail != nil {
		i.discard(cleanupCtx, CleanupStageThumbnail, stored.Thumbnail.Key)
	}
}

func (i *Ingestor) discard(ctx context.Context, stage, key string) {
	if err := i.backend.DeleteObject(ctx, i.dest.Bucket, key); err != nil {
		i.log.Warn().
			Err(err).
			Str("event", "cleanup_failed").
			Str("stage", stage).
			Str("key", key).
			Msg("failed to delete orphaned object")
		if i.hooks.CleanupFailed != nil {
			i.hooks.CleanupFailed(stage)
		}
	}
}

func (i *Ingestor) resolveFolder(folder string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = i.policy.DefaultFolder
	}
	if len(i.policy.AllowedFolders) > 0 && !slices.Contains(i.policy.AllowedFolders, folder) {
		return "", failure.Validation("folder %q is not allowed", folder).
			WithDetails(map[string]any{"allowed_folders": i.policy.AllowedFolders})
	}
	return folder, nil
}

// displayName keeps the base name of the client filename, or the key's when absent.
func displayName(filename, key string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return path.Base(key)
	}
	return name
}
