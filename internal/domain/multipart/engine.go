// Package multipart drives chunked uploads with all-or-nothing completion.
package multipart

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/domain/failure"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// Path names how an object reached the backend.
type Path string

const (
	PathSingle    Path = "single"
	PathMultipart Path = "multipart"
)

// DefaultAbortTimeout bounds the abort issued after the caller's context is gone.
const DefaultAbortTimeout = 30 * time.Second

// Hooks receive engine outcomes. Nil fields are skipped.
type Hooks struct {
	SessionFinished func(state State, parts int)
	AbortFailed     func(err error)
}

// Options configures an Engine.
type Options struct {
	ChunkSize    int64
	AbortTimeout time.Duration
	Hooks        Hooks
}

// Result describes a committed upload.
type Result struct {
	Key       string
	Path      Path
	SessionID string
	Location  string
	ETag      string
	Size      int64
	Parts     []objectstore.CompletedPart
}

// Engine uploads byte sources to a backend. It holds no per-upload state.
type Engine struct {
	backend      objectstore.Backend
	chunkSize    int64
	abortTimeout time.Duration
	hooks        Hooks
	log          zerolog.Logger
}

func NewEngine(backend objectstore.Backend, opts Options, log zerolog.Logger) *Engine {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.AbortTimeout <= 0 {
		opts.AbortTimeout = DefaultAbortTimeout
	}
	return &Engine{
		backend:      backend,
		chunkSize:    opts.ChunkSize,
		abortTimeout: opts.AbortTimeout,
		hooks:        opts.Hooks,
		log:          log.With().Str("component", "multipart-engine").Logger(),
	}
}

// ChunkSize returns the part size used for multipart uploads.
func (e *Engine) ChunkSize() int64 {
	return e.chunkSize
}

// Put stores src with one backend write.
func (e *Engine) Put(ctx context.Context, dest objectstore.Destination, key, contentType string, src io.ReaderAt, size int64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.FromBackend(ctx, err).At("put_object", key, 0, 0)
	}
	etag, err := e.backend.PutObject(ctx, dest.Bucket, key, io.NewSectionReader(src, 0, size), size, contentType)
	if err != nil {
		return nil, failure.FromBackend(ctx, err).At("put_object", key, 0, 0)
	}
	return &Result{Key: key, Path: PathSingle, ETag: etag, Size: size}, nil
}

// Upload stores src as a multipart session. On any failure, including
// cancellation of ctx, the session is aborted and nothing is left under key.
func (e *Engine) Upload(ctx context.Context, dest objectstore.Destination, key, contentType string, src io.ReaderAt, size int64) (*Result, error) {
	splitter, err := NewSplitter(size, e.chunkSize)
	if err != nil {
		return nil, failure.Validation("%v", err).At("split", key, 0, 0)
	}
	if err := ctx.Err(); err != nil {
		return nil, failure.FromBackend(ctx, err).At("initiate", key, 0, 0)
	}

	session, err := Initiate(ctx, e.backend, dest.Bucket, key, contentType, e.log)
	if err != nil {
		return nil, failure.FromBackend(ctx, err).At("initiate", key, 0, 0)
	}

	for w := range splitter.Windows() {
		if err := ctx.Err(); err != nil {
			return nil, e.abort(ctx, session, failure.FromBackend(ctx, err).At("upload_part", key, w.PartNumber, w.Offset))
		}
		if err := session.Upload(ctx, src, w); err != nil {
			return nil, e.abort(ctx, session, failure.FromBackend(ctx, err).At("upload_part", key, w.PartNumber, w.Offset))
		}
	}

	location, err := session.Complete(ctx)
	if err != nil {
		return nil, e.abort(ctx, session, failure.FromBackend(ctx, err).At("complete", key, 0, session.Offset()))
	}
	e.finished(session)

	e.log.Info().
		Str("key", key).
		Str("session_id", session.ID()).
		Int("parts", len(session.parts)).
		Int64("bytes", size).
		Msg("multipart upload completed")

	return &Result{
		Key:       key,
		Path:      PathMultipart,
		SessionID: session.ID(),
		Location:  location,
		Size:      size,
		Parts:     session.Parts(),
	}, nil
}

// abort discards the session on a context that outlives the caller's and
// returns cause. Abort failures are logged and reported to hooks only.
func (e *Engine) abort(ctx context.Context, session *Session, cause *failure.Error) error {
	abortCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.abortTimeout)
	defer cancel()

	if err := session.Abort(abortCtx); err != nil {
		e.log.Warn().
			Err(err).
			Str("key", session.Key()).
			Str("session_id", session.ID()).
			Msg("abort multipart upload failed; parts left for backend lifecycle cleanup")
		if e.hooks.AbortFailed != nil {
			e.hooks.AbortFailed(err)
		}
	}
	e.finished(session)

	e.log.Warn().
		Str("key", session.Key()).
		Str("session_id", session.ID()).
		Str("reason", cause.Reason.String()).
		Int32("part", cause.PartNumber).
		Int64("offset", cause.Offset).
		Err(cause.Cause).
		Msg("multipart upload aborted")
	return cause
}

func (e *Engine) finished(session *Session) {
	if e.hooks.SessionFinished != nil {
		e.hooks.SessionFinished(session.State(), len(session.parts))
	}
}
