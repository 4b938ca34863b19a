// Package signing issues time-boxed read URLs for stored objects.
package signing

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/janhq/media-gateway/internal/domain/failure"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

const (
	DefaultTTL = 2 * time.Hour
	MinTTL     = time.Second
	MaxTTL     = 7 * 24 * time.Hour
)

// Grant is a signed URL and the instant it stops working. Grants are never persisted.
type Grant struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Request describes what to sign.
type Request struct {
	Key         string
	ContentType string
	Filename    string
	TTL         time.Duration
}

// Issuer signs URLs through the backend. It is stateless and safe for concurrent use.
type Issuer struct {
	backend    objectstore.Backend
	bucket     string
	defaultTTL time.Duration
	maxTTL     time.Duration
	now        func() time.Time
}

func NewIssuer(backend objectstore.Backend, bucket string, defaultTTL, maxTTL time.Duration) *Issuer {
	if maxTTL <= 0 || maxTTL > MaxTTL {
		maxTTL = MaxTTL
	}
	if defaultTTL <= 0 || defaultTTL > maxTTL {
		defaultTTL = min(DefaultTTL, maxTTL)
	}
	return &Issuer{
		backend:    backend,
		bucket:     bucket,
		defaultTTL: defaultTTL,
		maxTTL:     maxTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for ExpiresAt.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// DefaultTTL returns the TTL used when a request does not set one.
func (i *Issuer) DefaultTTL() time.Duration {
	return i.defaultTTL
}

// ResolveTTL applies the default and rejects values outside [MinTTL, maxTTL].
func (i *Issuer) ResolveTTL(ttl time.Duration) (time.Duration, error) {
	if ttl == 0 {
		return i.defaultTTL, nil
	}
	if ttl < MinTTL || ttl > i.maxTTL {
		return 0, failure.Validation("signed url ttl %s must be between %s and %s", ttl, MinTTL, i.maxTTL)
	}
	return ttl, nil
}

// Issue signs a GET URL for req.Key. Calling it again for the same key is safe.
func (i *Issuer) Issue(ctx context.Context, req Request) (*Grant, error) {
	ttl, err := i.ResolveTTL(req.TTL)
	if err != nil {
		return nil, err
	}
	issued := i.now()
	url, err := i.backend.PresignGet(ctx, i.bucket, req.Key, ttl, Overrides(req.ContentType, req.Filename))
	if err != nil {
		return nil, failure.FromBackend(ctx, err).At("presign", req.Key, 0, 0)
	}
	return &Grant{
		Key:       req.Key,
		URL:       url,
		ExpiresAt: issued.Add(ttl).UTC(),
	}, nil
}

// Overrides builds the response headers a signed URL forces: the stored
// content type and an inline disposition carrying the original filename.
func Overrides(contentType, filename string) objectstore.ResponseOverrides {
	overrides := objectstore.ResponseOverrides{ContentType: contentType}
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return overrides
	}
	disposition := mime.FormatMediaType("inline", map[string]string{"filename": name})
	if disposition == "" {
		// FormatMediaType refuses non-token characters; fall back to a quoted ASCII name.
		disposition = fmt.Sprintf("inline; filename=%q", asciiOnly(name))
	}
	overrides.ContentDisposition = disposition
	return overrides
}

func asciiOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
