package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/domain/failure"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
	"github.com/janhq/media-gateway/internal/infrastructure/storage"
	"github.com/janhq/media-gateway/internal/interfaces/httpserver/requests"
	"github.com/janhq/media-gateway/internal/interfaces/httpserver/responses"
	"github.com/janhq/media-gateway/internal/utils/platformerrors"
)

// FilesHandler serves signed file URLs issued by the local and in-memory backends.
type FilesHandler struct {
	signer  *storage.URLSigner
	backend objectstore.Backend
	log     zerolog.Logger
	now     func() time.Time
}

func NewFilesHandler(signer *storage.URLSigner, backend objectstore.Backend, log zerolog.Logger) *FilesHandler {
	return &FilesHandler{
		signer:  signer,
		backend: backend,
		log:     log.With().Str("component", "files-handler").Logger(),
		now:     time.Now,
	}
}

// WithClock replaces the time source used for cache headers.
func (h *FilesHandler) WithClock(now func() time.Time) *FilesHandler {
	h.now = now
	return h
}

// Serve godoc
// @Summary      Download a signed file
// @Description  Streams an object addressed by a signed URL. The token expires and is bound to the key in the path.
// @Tags         files
// @Produce      octet-stream
// @Param        key    path   string  true  "Object key"
// @Param        token  query  string  true  "Signed token"
// @Success      200  "binary data"
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/files/{key} [get]
func (h *FilesHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	var query requests.FileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "token is required", "3b8d2f6a-9c1e-4a57-8e0b-6d4f1a2c7e95")
		return
	}

	claims, err := h.signer.Verify(query.Token)
	if err != nil {
		h.log.Debug().Err(err).Str("key", key).Msg("rejected file token")
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "invalid or expired token", "b1e7c4d9-2f3a-4c86-a05d-8e9f3b6d1c42")
		return
	}
	if claims.Key() != key {
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "token does not grant access to this key", "e4a9f2c1-7b3d-4e68-9c05-1d2f8a6b3e70")
		return
	}

	obj, err := h.backend.GetObject(c.Request.Context(), claims.Bucket, key)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "file not found", "7d1c5e8b-4a2f-4b93-b6e0-9f3a2d7c5e18")
			return
		}
		h.log.Error().Err(err).Str("key", key).Msg("failed to read signed file")
		responses.HandleError(c, failure.FromBackend(c.Request.Context(), err).At("get_object", key, 0, 0), "failed to read file")
		return
	}
	defer obj.Body.Close()

	contentType := claims.ContentType
	if contentType == "" {
		contentType = obj.ContentType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extra := map[string]string{}
	if claims.ContentDisposition != "" {
		extra["Content-Disposition"] = claims.ContentDisposition
	}
	if claims.ExpiresAt != nil {
		remaining := int(claims.ExpiresAt.Sub(h.now()).Seconds())
		extra["Cache-Control"] = fmt.Sprintf("private, max-age=%d", max(remaining, 0))
	}

	c.DataFromReader(http.StatusOK, obj.ContentLength, contentType, obj.Body, extra)
}
