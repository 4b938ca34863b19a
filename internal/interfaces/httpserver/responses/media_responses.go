package responses

import (
	"time"

	"github.com/janhq/media-gateway/internal/domain/media"
)

// UploadResponse wraps a single committed upload.
type UploadResponse struct {
	Data *media.UploadResult `json:"data"`
}

// ListResponse is one page of a media listing.
type ListResponse struct {
	Data       []*media.UploadResult `json:"data"`
	Pagination media.Pagination      `json:"pagination"`
}

// BulkUploadResponse reports every file of a bulk upload.
type BulkUploadResponse struct {
	Uploaded []*media.UploadResult `json:"uploaded"`
	Failed   []media.BulkFailure   `json:"failed"`
	Summary  media.BulkSummary     `json:"summary"`
}

// BuildBulkUploadResponse creates the response from a bulk result
func BuildBulkUploadResponse(result *media.BulkResult) *BulkUploadResponse {
	return &BulkUploadResponse{
		Uploaded: result.Uploaded,
		Failed:   result.Failed,
		Summary:  result.Summary,
	}
}

// PresignResponse contains fresh signed URLs for a record
type PresignResponse struct {
	ID        string                 `json:"id"`
	Key       string                 `json:"key"`
	URL       string                 `json:"url"`
	ExpiresAt time.Time              `json:"expires_at"`
	ExpiresIn int64                  `json:"expires_in"`
	Thumbnail *media.ThumbnailResult `json:"thumbnail,omitempty"`
}

// BuildPresignResponse creates the presign response relative to now
func BuildPresignResponse(result *media.PresignResult, now time.Time) *PresignResponse {
	return &PresignResponse{
		ID:        result.ID,
		Key:       result.Key,
		URL:       result.URL,
		ExpiresAt: result.ExpiresAt,
		ExpiresIn: int64(result.ExpiresAt.Sub(now).Seconds()),
		Thumbnail: result.Thumbnail,
	}
}

// DeleteResponse confirms a deletion
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
