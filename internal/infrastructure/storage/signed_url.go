package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// ErrInvalidToken is returned for tampered, malformed, or expired file tokens.
var ErrInvalidToken = errors.New("invalid or expired file token")

// FileClaims is the payload of a signed file URL.
type FileClaims struct {
	Bucket             string `json:"bkt"`
	ContentType        string `json:"rct,omitempty"`
	ContentDisposition string `json:"rcd,omitempty"`
	jwt.RegisteredClaims
}

// Key returns the object key the token grants access to.
func (c *FileClaims) Key() string {
	return c.Subject
}

// URLSigner issues and verifies HS256 file tokens for backends that have no
// native presigning (local filesystem, in-memory).
type URLSigner struct {
	secret  []byte
	baseURL string
	now     func() time.Time
}

// NewURLSigner returns a signer producing URLs under baseURL (e.g. http://host/v1/files).
func NewURLSigner(secret, baseURL string) (*URLSigner, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("url signing secret is empty")
	}
	return &URLSigner{
		secret:  []byte(secret),
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		now:     time.Now,
	}, nil
}

// WithClock replaces the time source used for issuing and verifying tokens.
func (s *URLSigner) WithClock(now func() time.Time) *URLSigner {
	s.now = now
	return s
}

// Sign returns a URL granting GET access to bucket/key until now+ttl.
func (s *URLSigner) Sign(bucket, key string, ttl time.Duration, overrides objectstore.ResponseOverrides) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("%w: ttl must be positive", objectstore.ErrRejected)
	}
	issued := s.now()
	claims := FileClaims{
		Bucket:             bucket,
		ContentType:        overrides.ContentType,
		ContentDisposition: overrides.ContentDisposition,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   key,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign file token: %w", err)
	}

	escaped := make([]string, 0)
	for _, segment := range strings.Split(key, "/") {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return fmt.Sprintf("%s/%s?token=%s", s.baseURL, strings.Join(escaped, "/"), url.QueryEscape(token)), nil
}

// Verify checks the token signature and expiry and returns its claims.
func (s *URLSigner) Verify(token string) (*FileClaims, error) {
	claims := &FileClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
