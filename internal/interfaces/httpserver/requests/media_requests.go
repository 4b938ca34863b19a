package requests

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// maxTTLSeconds is the largest whole-second TTL a time.Duration can hold.
const maxTTLSeconds = int64(math.MaxInt64 / time.Second)

// UploadForm holds the non-file fields of an upload form.
type UploadForm struct {
	Folder     string `form:"folder"`
	Visibility string `form:"visibility"`
	UserID     string `form:"user_id"`
}

// PresignQuery is the query of a presign request.
type PresignQuery struct {
	TTL string `form:"ttl"`
}

// Duration parses TTL as a Go duration or whole seconds. An empty value
// means the default TTL.
func (q PresignQuery) Duration() (time.Duration, error) {
	if q.TTL == "" {
		return 0, nil
	}
	var ttl time.Duration
	if seconds, err := strconv.ParseInt(q.TTL, 10, 64); err == nil {
		if seconds > maxTTLSeconds {
			return 0, fmt.Errorf("ttl %d seconds is out of range", seconds)
		}
		ttl = time.Duration(seconds) * time.Second
	} else if ttl, err = time.ParseDuration(q.TTL); err != nil {
		return 0, fmt.Errorf("ttl must be seconds or a duration such as 15m or 2h")
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("ttl must be positive")
	}
	return ttl, nil
}

// ListQuery is the query of a media listing.
type ListQuery struct {
	Folder string `form:"folder"`
	UserID string `form:"user_id"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

// FileQuery is the query of a signed file download.
type FileQuery struct {
	Token string `form:"token" binding:"required"`
}
