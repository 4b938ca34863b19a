package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/failure"
	domain "github.com/janhq/media-gateway/internal/domain/media"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
	"github.com/janhq/media-gateway/internal/domain/signing"
	"github.com/janhq/media-gateway/internal/infrastructure/auth"
	"github.com/janhq/media-gateway/internal/infrastructure/metrics"
	"github.com/janhq/media-gateway/internal/infrastructure/observability"
	"github.com/janhq/media-gateway/internal/interfaces/httpserver/requests"
	"github.com/janhq/media-gateway/internal/interfaces/httpserver/responses"
	"github.com/janhq/media-gateway/internal/utils/platformerrors"
)

const anonymousUser = "anonymous"

// formOverhead covers multipart boundaries, part headers and text fields on
// top of the file bytes themselves.
const formOverhead = 1 << 20

// MediaService is the domain surface the media endpoints depend on.
type MediaService interface {
	Upload(ctx context.Context, req domain.UploadRequest) (*domain.UploadResult, error)
	UploadBulk(ctx context.Context, reqs []domain.UploadRequest) (*domain.BulkResult, error)
	Download(ctx context.Context, id string) (*objectstore.Object, *domain.Media, error)
	Presign(ctx context.Context, id string, ttl time.Duration) (*domain.PresignResult, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query domain.ListQuery) (*domain.ListResult, error)
}

// MediaHandler exposes media endpoints.
type MediaHandler struct {
	cfg     *config.Config
	service MediaService
	log     zerolog.Logger
	now     func() time.Time
}

func NewMediaHandler(cfg *config.Config, service MediaService, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "media-handler").Logger(),
		now:     time.Now,
	}
}

// Upload godoc
// @Summary      Upload a media file
// @Description  Stores one image or video. Files larger than the chunk size are sent as a multipart upload; the response carries a signed URL and, for images, a thumbnail.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file        formData  file    true   "File to upload"
// @Param        folder      formData  string  false  "Destination folder (feed, general)"
// @Param        visibility  formData  string  false  "Only private is supported"
// @Param        user_id     formData  string  false  "Uploader id when auth is disabled"
// @Success      201  {object}  responses.UploadResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      499  {object}  responses.ErrorResponse
// @Failure      502  {object}  responses.ErrorResponse
// @Failure      503  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/upload [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	h.limitBody(c, 1)
	var form requests.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		responses.HandleError(c, formError(err, failure.Validation("invalid upload form: %v", err)), "invalid upload form")
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		responses.HandleError(c, formError(err, failure.Validation("file is required")), "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("failed to open form file")
		responses.HandleError(c, failure.Validation("failed to read file"), "failed to read file")
		return
	}
	defer file.Close()

	req := h.uploadRequest(c, header, file, form)
	ctx, span := observability.StartUploadSpan(c.Request.Context(), req.Filename, req.ContentType, req.Folder, req.Size)
	defer span.End()

	result, err := h.service.Upload(ctx, req)
	recordUpload(result, err)
	if err != nil {
		observability.RecordError(span, err, failure.ReasonOf(err).String())
		h.logFailure(err, "upload failed", header.Filename)
		responses.HandleError(c, err, "upload failed")
		return
	}

	c.JSON(http.StatusCreated, responses.UploadResponse{Data: result})
}

// UploadBulk godoc
// @Summary      Upload several media files
// @Description  Uploads each file independently. Partial success is reported per file; the request fails only when every file fails.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        files[]  formData  file    true   "Files to upload"
// @Param        folder   formData  string  false  "Destination folder (feed, general)"
// @Success      201  {object}  responses.BulkUploadResponse
// @Failure      400  {object}  responses.BulkUploadResponse
// @Failure      503  {object}  responses.BulkUploadResponse
// @Security     BearerAuth
// @Router       /v1/media/upload-bulk [post]
func (h *MediaHandler) UploadBulk(c *gin.Context) {
	h.limitBody(c, h.cfg.BulkMaxFiles)
	var form requests.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		responses.HandleError(c, formError(err, failure.Validation("invalid upload form: %v", err)), "invalid upload form")
		return
	}
	multipartForm, err := c.MultipartForm()
	if err != nil {
		responses.HandleError(c, formError(err, failure.Validation("no files provided")), "no files provided")
		return
	}
	headers := multipartForm.File["files[]"]
	if len(headers) == 0 {
		headers = multipartForm.File["files"]
	}
	if len(headers) == 0 {
		responses.HandleError(c, failure.Validation("no files provided"), "no files provided")
		return
	}
	if len(headers) > h.cfg.BulkMaxFiles {
		responses.HandleError(c, failure.Validation("too many files: %d, maximum is %d", len(headers), h.cfg.BulkMaxFiles), "too many files")
		return
	}

	reqs := make([]domain.UploadRequest, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			h.log.Error().Err(err).Str("filename", header.Filename).Msg("failed to open form file")
			responses.HandleError(c, failure.Validation("failed to read file %q", header.Filename), "failed to read file")
			return
		}
		defer file.Close()
		reqs = append(reqs, h.uploadRequest(c, header, file, form))
	}

	result, err := h.service.UploadBulk(c.Request.Context(), reqs)
	if result == nil {
		h.logFailure(err, "bulk upload failed", "")
		responses.HandleError(c, err, "bulk upload failed")
		return
	}
	for _, uploaded := range result.Uploaded {
		recordUpload(uploaded, nil)
	}
	for _, failed := range result.Failed {
		metrics.RecordUpload("unknown", "none", strings.ToLower(failed.Reason), 0)
	}

	if err != nil {
		h.logFailure(err, "bulk upload failed", "")
		c.JSON(responses.StatusFor(err), responses.BuildBulkUploadResponse(result))
		return
	}
	c.JSON(http.StatusCreated, responses.BuildBulkUploadResponse(result))
}

// List godoc
// @Summary      List media
// @Description  Returns live media newest first, one page at a time, each with fresh signed URLs for the object and its thumbnail. A URL that cannot be signed is omitted.
// @Tags         media
// @Produce      json
// @Param        folder   query     string  false  "Only media in this folder"
// @Param        user_id  query     string  false  "Only media uploaded by this user"
// @Param        page     query     int     false  "Page number, starting at 1"
// @Param        limit    query     int     false  "Page size, 1 to 50 (default 10)"
// @Success      200  {object}  responses.ListResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media [get]
func (h *MediaHandler) List(c *gin.Context) {
	var query requests.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.HandleError(c, failure.Validation("invalid query: %v", err), "invalid query")
		return
	}
	result, err := h.service.List(c.Request.Context(), domain.ListQuery{
		Folder: query.Folder,
		UserID: query.UserID,
		Page:   query.Page,
		Limit:  query.Limit,
	})
	if err != nil {
		h.logFailure(err, "list failed", query.Folder)
		responses.HandleError(c, err, "list failed")
		return
	}
	c.JSON(http.StatusOK, responses.ListResponse{Data: result.Items, Pagination: result.Pagination})
}

// Download godoc
// @Summary      Download media
// @Description  Streams the object through the gateway, or returns a signed URL when proxying is disabled.
// @Tags         media
// @Produce      octet-stream
// @Param        id   path      string  true  "Media ID (med_xxx)"
// @Success      200  "binary data"
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id} [get]
func (h *MediaHandler) Download(c *gin.Context) {
	id := c.Param("id")

	if !h.cfg.ProxyDownload {
		h.presign(c, id, 0)
		return
	}

	obj, record, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		h.logFailure(err, "download failed", id)
		responses.HandleError(c, err, "download failed")
		return
	}
	defer obj.Body.Close()

	overrides := signing.Overrides(obj.ContentType, record.Filename)
	contentType := overrides.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extra := map[string]string{"Cache-Control": "private, no-store"}
	if overrides.ContentDisposition != "" {
		extra["Content-Disposition"] = overrides.ContentDisposition
	}

	if obj.ContentLength >= 0 {
		c.DataFromReader(http.StatusOK, obj.ContentLength, contentType, obj.Body, extra)
		return
	}
	for k, v := range extra {
		c.Header(k, v)
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("stream error")
	}
}

// Presign godoc
// @Summary      Get signed download URLs
// @Description  Returns a fresh time-limited URL for the media object and its thumbnail.
// @Tags         media
// @Produce      json
// @Param        id   path      string  true   "Media ID (med_xxx)"
// @Param        ttl  query     string  false  "Lifetime as seconds or a duration (15m, 2h); defaults to the configured TTL"
// @Success      200  {object}  responses.PresignResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id}/presign [get]
func (h *MediaHandler) Presign(c *gin.Context) {
	var query requests.PresignQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.HandleError(c, failure.Validation("invalid query: %v", err), "invalid query")
		return
	}
	ttl, err := query.Duration()
	if err != nil {
		responses.HandleError(c, failure.Validation("%s", err.Error()), "invalid ttl")
		return
	}
	h.presign(c, c.Param("id"), ttl)
}

func (h *MediaHandler) presign(c *gin.Context, id string, ttl time.Duration) {
	start := time.Now()
	result, err := h.service.Presign(c.Request.Context(), id, ttl)
	metrics.RecordPresign(time.Since(start).Seconds())
	if err != nil {
		h.logFailure(err, "presign failed", id)
		responses.HandleError(c, err, "presign failed")
		return
	}
	c.JSON(http.StatusOK, responses.BuildPresignResponse(result, h.now()))
}

// Delete godoc
// @Summary      Delete media
// @Description  Deletes the object and its thumbnail from storage and marks the record deleted.
// @Tags         media
// @Produce      json
// @Param        id   path      string  true  "Media ID (med_xxx)"
// @Success      200  {object}  responses.DeleteResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.logFailure(err, "delete failed", id)
		responses.HandleError(c, err, "delete failed")
		return
	}
	c.JSON(http.StatusOK, responses.DeleteResponse{ID: id, Deleted: true})
}

// limitBody caps the request body at files maximum-size files plus form
// overhead, so oversized forms fail while they are read.
func (h *MediaHandler) limitBody(c *gin.Context, files int) {
	if h.cfg.MaxMediaBytes <= 0 {
		return
	}
	limit := int64(max(files, 1))*h.cfg.MaxMediaBytes + formOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}

// formError reports a body over the cap as a size violation and returns
// fallback for any other form error.
func formError(err error, fallback *failure.Error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return failure.Validation("request body exceeds %d bytes", tooLarge.Limit).
			WithDetails(map[string]any{"max_bytes": tooLarge.Limit}).
			WithCause(err)
	}
	return fallback
}

func (h *MediaHandler) uploadRequest(c *gin.Context, header *multipart.FileHeader, file multipart.File, form requests.UploadForm) domain.UploadRequest {
	userID := auth.UserID(c)
	if userID == "" {
		userID = strings.TrimSpace(form.UserID)
	}
	if userID == "" {
		userID = anonymousUser
	}
	return domain.UploadRequest{
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
		Folder:      form.Folder,
		Visibility:  objectstore.Visibility(strings.ToLower(strings.TrimSpace(form.Visibility))),
		UserID:      userID,
	}
}

func (h *MediaHandler) logFailure(err error, msg, subject string) {
	event := h.log.Warn()
	if responses.StatusFor(err) >= http.StatusInternalServerError {
		event = h.log.Error()
	}
	if subject != "" {
		event = event.Str("subject", subject)
	}
	if reason := failure.ReasonOf(err); reason != "" {
		event = event.Str("reason", reason.String())
	}
	event.Err(err).Msg(msg)
}

func recordUpload(result *domain.UploadResult, err error) {
	if err == nil {
		metrics.RecordUpload(string(result.MediaType), result.UploadPath, "success", result.Size)
		return
	}
	status := string(platformerrors.ErrorTypeInternal)
	if reason := failure.ReasonOf(err); reason != "" {
		status = reason.String()
	}
	metrics.RecordUpload("unknown", "none", strings.ToLower(status), 0)
}
