package media

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/failure"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
	"github.com/janhq/media-gateway/internal/domain/signing"
	"github.com/janhq/media-gateway/internal/utils/platformerrors"
	"github.com/janhq/media-gateway/utils/mediaid"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	Create(ctx context.Context, obj *Media) error
	GetByID(ctx context.Context, id string) (*Media, error)
	MarkDeleted(ctx context.Context, id string) error
	// List returns live records matching filter, newest first, and the total match count.
	List(ctx context.Context, filter ListFilter) ([]*Media, int64, error)
}

// Service orchestrates media ingestion and retrieval.
type Service struct {
	repo            Repository
	backend         objectstore.Backend
	ingestor        *Ingestor
	issuer          *signing.Issuer
	provider        string
	bulkMax         int
	bulkConcurrency int
	log             zerolog.Logger
}

func NewService(cfg *config.Config, repo Repository, backend objectstore.Backend, ingestor *Ingestor, issuer *signing.Issuer, log zerolog.Logger) *Service {
	return &Service{
		repo:            repo,
		backend:         backend,
		ingestor:        ingestor,
		issuer:          issuer,
		provider:        cfg.StorageBackend,
		bulkMax:         max(cfg.BulkMaxFiles, 1),
		bulkConcurrency: max(cfg.BulkConcurrency, 1),
		log:             log.With().Str("component", "media-service").Logger(),
	}
}

// Upload stores one file, records it and returns signed URLs for it.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	stored, err := s.ingestor.Ingest(ctx, req)
	if err != nil {
		return nil, err
	}

	record := s.newRecord(stored, req.UserID)
	if err := s.repo.Create(ctx, record); err != nil {
		s.ingestor.Discard(ctx, stored)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to record media")
	}

	return s.resultFor(ctx, record, 0), nil
}

// UploadBulk uploads every request with bounded concurrency. Results keep the
// input order. When every file fails the first failure is returned as well.
func (s *Service) UploadBulk(ctx context.Context, reqs []UploadRequest) (*BulkResult, error) {
	if len(reqs) == 0 {
		return nil, failure.Validation("no files provided")
	}
	if len(reqs) > s.bulkMax {
		return nil, failure.Validation("too many files: %d, maximum is %d", len(reqs), s.bulkMax)
	}

	results := make([]*UploadResult, len(reqs))
	errs := make([]error, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.bulkConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i], errs[i] = s.Upload(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	bulk := &BulkResult{
		Uploaded: make([]*UploadResult, 0, len(reqs)),
		Failed:   make([]BulkFailure, 0),
	}
	var firstErr error
	for i, err := range errs {
		if err == nil {
			bulk.Uploaded = append(bulk.Uploaded, results[i])
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
		bulk.Failed = append(bulk.Failed, BulkFailure{
			Index:    i,
			Filename: reqs[i].Filename,
			Reason:   reasonOf(err),
			Error:    messageOf(err),
		})
	}
	bulk.Summary = BulkSummary{Total: len(reqs), Uploaded: len(bulk.Uploaded), Failed: len(bulk.Failed)}

	s.log.Info().
		Int("total", bulk.Summary.Total).
		Int("uploaded", bulk.Summary.Uploaded).
		Int("failed", bulk.Summary.Failed).
		Msg("bulk upload finished")

	if len(bulk.Uploaded) == 0 {
		return bulk, firstErr
	}
	return bulk, nil
}

// Get returns the record for id.
func (s *Service) Get(ctx context.Context, id string) (*Media, error) {
	if !mediaid.IsValid(id) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid media id", nil, "5f0c1a7e-3d2b-4c8e-9a61-7b4e2d9c0f13")
	}
	return s.repo.GetByID(ctx, id)
}

// Download opens the stored bytes of a record for proxying.
func (s *Service) Download(ctx context.Context, id string) (*objectstore.Object, *Media, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.backend.GetObject(ctx, record.Bucket, record.Key)
	if err != nil {
		if objectstore.IsNotFound(err) {
			return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"media object is missing from storage", err, "8c3e6b1d-2a4f-4e7b-b0d9-1f5a3c7e9b24")
		}
		return nil, nil, failure.FromBackend(ctx, err).At("get_object", record.Key, 0, 0)
	}
	if obj.ContentType == "" {
		obj.ContentType = record.ContentType
	}
	return obj, record, nil
}

// Presign issues fresh signed URLs for a record and its thumbnail. ttl 0 uses the default.
func (s *Service) Presign(ctx context.Context, id string, ttl time.Duration) (*PresignResult, error) {
	if _, err := s.issuer.ResolveTTL(ttl); err != nil {
		return nil, err
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	grant, err := s.issuer.Issue(ctx, signing.Request{
		Key:         record.Key,
		ContentType: record.ContentType,
		Filename:    record.Filename,
		TTL:         ttl,
	})
	if err != nil {
		return nil, err
	}

	result := &PresignResult{
		ID:        record.ID,
		Key:       record.Key,
		URL:       grant.URL,
		ExpiresAt: grant.ExpiresAt,
	}
	if record.ThumbnailKey != "" {
		result.Thumbnail = s.thumbnailResult(ctx, record, ttl)
	}
	return result, nil
}

// List returns one page of live records with signed URLs for each record and
// its thumbnail. A URL that cannot be signed is left empty.
func (s *Service) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	page := max(query.Page, 1)
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		return nil, failure.Validation("limit %d exceeds maximum of %d", limit, MaxListLimit)
	}
	folder := strings.Trim(strings.TrimSpace(query.Folder), "/")
	if folder != "" {
		if _, err := s.ingestor.resolveFolder(folder); err != nil {
			return nil, err
		}
	}

	records, total, err := s.repo.List(ctx, ListFilter{
		Folder: folder,
		UserID: strings.TrimSpace(query.UserID),
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list media")
	}

	items := make([]*UploadResult, 0, len(records))
	for _, record := range records {
		items = append(items, s.resultFor(ctx, record, 0))
	}
	return &ListResult{Items: items, Pagination: paginate(page, limit, total)}, nil
}

func paginate(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	p := Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevious {
		prev := page - 1
		p.PreviousPage = &prev
	}
	return p
}

// Delete removes the object and its thumbnail, then soft-deletes the record.
func (s *Service) Delete(ctx context.Context, id string) error {
	record, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.backend.DeleteObject(ctx, record.Bucket, record.Key); err != nil {
		return failure.FromBackend(ctx, err).At("delete_object", record.Key, 0, 0)
	}
	if record.ThumbnailKey != "" {
		if err := s.backend.DeleteObject(ctx, record.Bucket, record.ThumbnailKey); err != nil {
			s.log.Warn().Err(err).Str("id", id).Str("key", record.ThumbnailKey).Msg("failed to delete thumbnail")
		}
	}
	if err := s.repo.MarkDeleted(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to mark media deleted")
	}

	s.log.Info().Str("id", id).Str("key", record.Key).Msg("media deleted")
	return nil
}

func (s *Service) newRecord(stored *Stored, userID string) *Media {
	dest := s.ingestor.Destination()
	record := &Media{
		ID:              mediaid.New(),
		StorageProvider: s.provider,
		Bucket:          dest.Bucket,
		Key:             stored.Key,
		Folder:          stored.Folder,
		Filename:        stored.Filename,
		ContentType:     stored.ContentType,
		MediaType:       stored.MediaType,
		Size:            stored.Size,
		UploadPath:      string(stored.Upload.Path),
		Parts:           len(stored.Upload.Parts),
		UploadedBy:      userID,
		CreatedAt:       time.Now().UTC(),
	}
	if stored.Thumbnail != nil {
		record.ThumbnailKey = stored.Thumbnail.Key
		record.ThumbnailWidth = stored.Thumbnail.Width
		record.ThumbnailHeight = stored.Thumbnail.Height
		record.ThumbnailSize = stored.Thumbnail.Size
	}
	return record
}

// resultFor signs URLs for a committed record. Signing failures leave the URL
// empty; the object stays retrievable through Presign.
func (s *Service) resultFor(ctx context.Context, record *Media, ttl time.Duration) *UploadResult {
	result := &UploadResult{
		ID:          record.ID,
		Key:         record.Key,
		Filename:    record.Filename,
		Size:        record.Size,
		ContentType: record.ContentType,
		MediaType:   record.MediaType,
		Folder:      record.Folder,
		UploadPath:  record.UploadPath,
		Parts:       record.Parts,
		UploadedAt:  record.CreatedAt,
	}

	grant, err := s.issuer.Issue(ctx, signing.Request{
		Key:         record.Key,
		ContentType: record.ContentType,
		Filename:    record.Filename,
		TTL:         ttl,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("key", record.Key).Msg("failed to sign media url, continuing without it")
	} else {
		result.URL = grant.URL
		result.ExpiresAt = &grant.ExpiresAt
	}

	if record.ThumbnailKey != "" {
		result.Thumbnail = s.thumbnailResult(ctx, record, ttl)
	}
	return result
}

func (s *Service) thumbnailResult(ctx context.Context, record *Media, ttl time.Duration) *ThumbnailResult {
	thumb := &ThumbnailResult{
		Key:    record.ThumbnailKey,
		Width:  record.ThumbnailWidth,
		Height: record.ThumbnailHeight,
		Size:   record.ThumbnailSize,
	}
	grant, err := s.issuer.Issue(ctx, signing.Request{Key: record.ThumbnailKey, ContentType: "image/jpeg", TTL: ttl})
	if err != nil {
		s.log.Warn().Err(err).Str("key", record.ThumbnailKey).Msg("failed to sign thumbnail url, continuing without it")
		return thumb
	}
	thumb.URL = grant.URL
	thumb.ExpiresAt = &grant.ExpiresAt
	return thumb
}

func reasonOf(err error) string {
	if reason := failure.ReasonOf(err); reason != "" {
		return reason.String()
	}
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return string(platformErr.Type)
	}
	return string(platformerrors.ErrorTypeInternal)
}

func messageOf(err error) string {
	var failureErr *failure.Error
	if errors.As(err, &failureErr) {
		return failureErr.Message
	}
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Message
	}
	return err.Error()
}
