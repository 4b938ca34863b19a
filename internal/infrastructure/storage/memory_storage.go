package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

type memoryObject struct {
	data        []byte
	contentType string
	etag        string
}

type memorySession struct {
	bucket      string
	key         string
	contentType string
	parts       map[int32]memoryObject
}

// MemoryStorage keeps objects in process memory. It is used by tests and the
// "memory" backend for local development.
type MemoryStorage struct {
	mu       sync.RWMutex
	objects  map[string]memoryObject
	sessions map[string]*memorySession
	signer   *URLSigner
	log      zerolog.Logger
}

// NewMemoryStorage creates an empty in-memory backend. signer may be nil when
// signed URLs are not needed.
func NewMemoryStorage(signer *URLSigner, log zerolog.Logger) *MemoryStorage {
	return &MemoryStorage{
		objects:  make(map[string]memoryObject),
		sessions: make(map[string]*memorySession),
		signer:   signer,
		log:      log.With().Str("component", "memory-storage").Logger(),
	}
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}

func md5ETag(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func (m *MemoryStorage) InitiateMultipart(ctx context.Context, bucket, key, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &memorySession{
		bucket:      bucket,
		key:         key,
		contentType: contentType,
		parts:       make(map[int32]memoryObject),
	}
	return id, nil
}

func (m *MemoryStorage) UploadPart(ctx context.Context, bucket, key, sessionID string, partNumber int32, body io.ReadSeeker, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(body, size))
	if err != nil {
		return "", fmt.Errorf("read part %d: %w", partNumber, err)
	}
	if int64(len(data)) != size {
		return "", fmt.Errorf("%w: part %d has %d bytes, declared %d", objectstore.ErrRejected, partNumber, len(data), size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	session, err := m.session(bucket, key, sessionID)
	if err != nil {
		return "", err
	}
	part := memoryObject{data: data, etag: md5ETag(data)}
	session.parts[partNumber] = part
	return part.etag, nil
}

func (m *MemoryStorage) CompleteMultipart(ctx context.Context, bucket, key, sessionID string, parts []objectstore.CompletedPart) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	session, err := m.session(bucket, key, sessionID)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: completion requires at least one part", objectstore.ErrRejected)
	}

	var buf bytes.Buffer
	for i, p := range parts {
		if i > 0 && p.PartNumber <= parts[i-1].PartNumber {
			return "", fmt.Errorf("%w: InvalidPartOrder at part %d", objectstore.ErrRejected, p.PartNumber)
		}
		stored, ok := session.parts[p.PartNumber]
		if !ok || stored.etag != p.ETag {
			return "", fmt.Errorf("%w: InvalidPart %d", objectstore.ErrRejected, p.PartNumber)
		}
		buf.Write(stored.data)
	}

	data := buf.Bytes()
	m.objects[objectID(bucket, key)] = memoryObject{
		data:        data,
		contentType: session.contentType,
		etag:        fmt.Sprintf("%s-%d", md5ETag(data), len(parts)),
	}
	delete(m.sessions, sessionID)
	m.log.Debug().Str("key", key).Int("parts", len(parts)).Int("bytes", len(data)).Msg("multipart object assembled")
	return objectID(bucket, key), nil
}

func (m *MemoryStorage) AbortMultipart(ctx context.Context, bucket, key, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.session(bucket, key, sessionID); err != nil {
		return err
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStorage) session(bucket, key, sessionID string) (*memorySession, error) {
	session, ok := m.sessions[sessionID]
	if !ok || session.bucket != bucket || session.key != key {
		return nil, fmt.Errorf("%w: NoSuchUpload %s", objectstore.ErrNotFound, sessionID)
	}
	return session, nil
}

func (m *MemoryStorage) PutObject(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(body, size))
	if err != nil {
		return "", fmt.Errorf("read object: %w", err)
	}
	obj := memoryObject{data: data, contentType: contentType, etag: md5ETag(data)}
	m.mu.Lock()
	m.objects[objectID(bucket, key)] = obj
	m.mu.Unlock()
	return obj.etag, nil
}

func (m *MemoryStorage) GetObject(ctx context.Context, bucket, key string) (*objectstore.Object, error) {
	m.mu.RLock()
	obj, ok := m.objects[objectID(bucket, key)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", objectstore.ErrNotFound, key)
	}
	return &objectstore.Object{
		Body:          io.NopCloser(bytes.NewReader(obj.data)),
		ContentType:   obj.contentType,
		ContentLength: int64(len(obj.data)),
	}, nil
}

func (m *MemoryStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	delete(m.objects, objectID(bucket, key))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration, overrides objectstore.ResponseOverrides) (string, error) {
	if m.signer == nil {
		return "", fmt.Errorf("%w: memory storage has no url signer", objectstore.ErrDisabled)
	}
	return m.signer.Sign(bucket, key, ttl, overrides)
}

// Health always succeeds.
func (m *MemoryStorage) Health(ctx context.Context) error {
	return nil
}

// OpenSessions returns the number of sessions neither completed nor aborted.
func (m *MemoryStorage) OpenSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
