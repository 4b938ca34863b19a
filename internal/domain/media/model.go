package media

import (
	"io"
	"time"

	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// MediaType groups allowed content types.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// allowedTypes maps every accepted content type to its media type.
var allowedTypes = map[string]MediaType{
	"image/jpeg":      MediaTypeImage,
	"image/jpg":       MediaTypeImage,
	"image/png":       MediaTypeImage,
	"image/gif":       MediaTypeImage,
	"image/webp":      MediaTypeImage,
	"image/svg+xml":   MediaTypeImage,
	"video/mp4":       MediaTypeVideo,
	"video/mpeg":      MediaTypeVideo,
	"video/quicktime": MediaTypeVideo,
	"video/x-msvideo": MediaTypeVideo,
	"video/webm":      MediaTypeVideo,
}

// Media is the persisted record of an uploaded object.
type Media struct {
	ID              string    `json:"id"`
	StorageProvider string    `json:"storage_provider"`
	Bucket          string    `json:"bucket"`
	Key             string    `json:"key"`
	Folder          string    `json:"folder"`
	Filename        string    `json:"filename"`
	ContentType     string    `json:"content_type"`
	MediaType       MediaType `json:"media_type"`
	Size            int64     `json:"size"`
	UploadPath      string    `json:"upload_path"`
	Parts           int       `json:"parts"`
	ThumbnailKey    string    `json:"thumbnail_key,omitempty"`
	ThumbnailWidth  int       `json:"thumbnail_width,omitempty"`
	ThumbnailHeight int       `json:"thumbnail_height,omitempty"`
	ThumbnailSize   int64     `json:"thumbnail_size,omitempty"`
	UploadedBy      string    `json:"uploaded_by,omitempty"`
	IsDeleted       bool      `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UploadRequest is one inbound upload. Size is -1 when unknown.
type UploadRequest struct {
	Body        io.Reader
	Size        int64
	ContentType string
	Filename    string
	Folder      string
	Visibility  objectstore.Visibility
	UserID      string
}

// UploadResult is returned to the caller once the object is committed and recorded.
type UploadResult struct {
	ID          string           `json:"id"`
	Key         string           `json:"key"`
	URL         string           `json:"url,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
	Filename    string           `json:"filename"`
	Size        int64            `json:"size"`
	ContentType string           `json:"content_type"`
	MediaType   MediaType        `json:"media_type"`
	Folder      string           `json:"folder"`
	UploadPath  string           `json:"upload_path"`
	Parts       int              `json:"parts"`
	Thumbnail   *ThumbnailResult `json:"thumbnail,omitempty"`
	UploadedAt  time.Time        `json:"uploaded_at"`
}

// ThumbnailResult describes the derived preview of an upload.
type ThumbnailResult struct {
	Key       string     `json:"key"`
	URL       string     `json:"url,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Size      int64      `json:"size"`
}

// BulkFailure reports one file of a bulk upload that was not stored.
type BulkFailure struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
	Error    string `json:"error"`
}

// BulkSummary counts the outcome of a bulk upload.
type BulkSummary struct {
	Total    int `json:"total"`
	Uploaded int `json:"uploaded"`
	Failed   int `json:"failed"`
}

// BulkResult is the partial-success outcome of UploadBulk.
type BulkResult struct {
	Uploaded []*UploadResult `json:"uploaded"`
	Failed   []BulkFailure   `json:"failed"`
	Summary  BulkSummary     `json:"summary"`
}

// PresignResult carries fresh signed URLs for a record.
type PresignResult struct {
	ID        string           `json:"id"`
	Key       string           `json:"key"`
	URL       string           `json:"url"`
	ExpiresAt time.Time        `json:"expires_at"`
	Thumbnail *ThumbnailResult `json:"thumbnail,omitempty"`
}

// Listing page sizes.
const (
	DefaultListLimit = 10
	MaxListLimit     = 50
)

// ListFilter narrows a listing of live records. Empty fields match every record.
type ListFilter struct {
	Folder string
	UserID string
	Offset int
	Limit  int
}

// ListQuery is a page-numbered listing request. Page starts at 1.
type ListQuery struct {
	Folder string
	UserID string
	Page   int
	Limit  int
}

// Pagination describes where a page sits in the full listing.
type Pagination struct {
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	Total        int64 `json:"total"`
	TotalPages   int   `json:"total_pages"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
	NextPage     *int  `json:"next_page"`
	PreviousPage *int  `json:"previous_page"`
}

// ListResult is one page of records, newest first, each with fresh signed URLs.
type ListResult struct {
	Items      []*UploadResult `json:"items"`
	Pagination Pagination      `json:"pagination"`
}
