package multipart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// ErrOutOfOrder is returned when a part does not directly follow the last committed one.
var ErrOutOfOrder = errors.New("part number is not the next expected part")

// Session tracks one multipart upload from initiate to its terminal state.
// A session has a single writer and is not safe for concurrent use.
type Session struct {
	backend  objectstore.Backend
	uploader *PartUploader
	log      zerolog.Logger

	bucket string
	key    string
	id     string
	state  State
	parts  []objectstore.CompletedPart
	offset int64
}

// Initiate opens a backend session for key.
func Initiate(ctx context.Context, backend objectstore.Backend, bucket, key, contentType string, log zerolog.Logger) (*Session, error) {
	id, err := backend.InitiateMultipart(ctx, bucket, key, contentType)
	if err != nil {
		return nil, err
	}
	return &Session{
		backend:  backend,
		uploader: NewPartUploader(backend),
		log:      log.With().Str("key", key).Str("session_id", id).Logger(),
		bucket:   bucket,
		key:      key,
		id:       id,
		state:    StateInitiated,
	}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Key() string { return s.key }

func (s *Session) State() State { return s.state }

// Offset returns the number of source bytes committed so far.
func (s *Session) Offset() int64 { return s.offset }

// NextPart returns the only part number the session will accept next.
func (s *Session) NextPart() int32 { return int32(len(s.parts)) + 1 }

// Parts returns a copy of the committed parts in part-number order.
func (s *Session) Parts() []objectstore.CompletedPart {
	return slices.Clone(s.parts)
}

func (s *Session) transition(target State) error {
	next, err := s.state.TransitionTo(target)
	if err != nil {
		return fmt.Errorf("%w: %s -> %s", err, s.state, target)
	}
	s.state = next
	return nil
}

// Upload commits window w. Only the part directly after the last committed one is accepted.
func (s *Session) Upload(ctx context.Context, src io.ReaderAt, w Window) error {
	if w.PartNumber != s.NextPart() || w.Offset != s.offset {
		return fmt.Errorf("%w: got part %d at offset %d, want part %d at offset %d",
			ErrOutOfOrder, w.PartNumber, w.Offset, s.NextPart(), s.offset)
	}
	if s.state == StateInitiated {
		if err := s.transition(StateUploading); err != nil {
			return err
		}
	}
	if s.state != StateUploading {
		return fmt.Errorf("%w: upload part in state %s", ErrInvalidTransition, s.state)
	}

	part, err := s.uploader.Upload(ctx, s.bucket, s.key, s.id, src, w)
	if err != nil {
		return err
	}
	s.parts = append(s.parts, part)
	s.offset = w.End()
	s.log.Debug().Int32("part", part.PartNumber).Int64("offset", s.offset).Msg("part committed")
	return nil
}

// Complete asks the backend to assemble the committed parts in ascending order.
func (s *Session) Complete(ctx context.Context) (string, error) {
	if err := s.transition(StateCompleting); err != nil {
		return "", err
	}
	parts := s.Parts()
	slices.SortFunc(parts, func(a, b objectstore.CompletedPart) int {
		return int(a.PartNumber - b.PartNumber)
	})
	location, err := s.backend.CompleteMultipart(ctx, s.bucket, s.key, s.id, parts)
	if err != nil {
		return "", err
	}
	if err := s.transition(StateCompleted); err != nil {
		return "", err
	}
	return location, nil
}

// Abort discards the session. The session ends ABORTED even when the backend
// call fails; the error is returned so the caller can report it.
func (s *Session) Abort(ctx context.Context) error {
	if err := s.transition(StateAborting); err != nil {
		return err
	}
	err := s.backend.AbortMultipart(ctx, s.bucket, s.key, s.id)
	s.state = StateAborted
	return err
}
