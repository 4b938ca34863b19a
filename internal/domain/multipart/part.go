package multipart

import (
	"context"
	"fmt"
	"io"

	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// PartUploader writes one window of a source as one part.
type PartUploader struct {
	backend objectstore.Backend
}

func NewPartUploader(backend objectstore.Backend) *PartUploader {
	return &PartUploader{backend: backend}
}

// Upload sends exactly the bytes of w and returns the committed part.
// It never retries; the backend error is returned unchanged for classification.
func (u *PartUploader) Upload(ctx context.Context, bucket, key, sessionID string, src io.ReaderAt, w Window) (objectstore.CompletedPart, error) {
	body := io.NewSectionReader(src, w.Offset, w.Length)
	etag, err := u.backend.UploadPart(ctx, bucket, key, sessionID, w.PartNumber, body, w.Length)
	if err != nil {
		return objectstore.CompletedPart{}, err
	}
	if etag == "" {
		return objectstore.CompletedPart{}, fmt.Errorf("%w: part %d returned no etag", objectstore.ErrRejected, w.PartNumber)
	}
	return objectstore.CompletedPart{PartNumber: w.PartNumber, ETag: etag, Size: w.Length}, nil
}
