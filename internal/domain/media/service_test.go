package media_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/failure"
	"github.com/janhq/media-gateway/internal/domain/media"
	"github.com/janhq/media-gateway/internal/domain/multipart"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
	"github.com/janhq/media-gateway/internal/domain/signing"
	"github.com/janhq/media-gateway/internal/domain/thumbnail"
	"github.com/janhq/media-gateway/internal/infrastructure/storage"
	"github.com/janhq/media-gateway/internal/utils/platformerrors"
)

const mib = 1 << 20

// memoryRepository is a Repository backed by a map. createFunc overrides Create when set.
type memoryRepository struct {
	mu         sync.Mutex
	records    map[string]*media.Media
	createFunc func(ctx context.Context, obj *media.Media) error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: make(map[string]*media.Media)}
}

func (r *memoryRepository) Create(ctx context.Context, obj *media.Media) error {
	if r.createFunc != nil {
		return r.createFunc(ctx, obj)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *obj
	r.records[obj.ID] = &copied
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*media.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.IsDeleted {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "media object not found", nil, "")
	}
	copied := *rec
	return &copied, nil
}

func (r *memoryRepository) MarkDeleted(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "media object not found", nil, "")
	}
	rec.IsDeleted = true
	return nil
}

func (r *memoryRepository) List(ctx context.Context, filter media.ListFilter) ([]*media.Media, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*media.Media
	for _, rec := range r.records {
		if rec.IsDeleted || (filter.Folder != "" && rec.Folder != filter.Folder) || (filter.UserID != "" && rec.UploadedBy != filter.UserID) {
			continue
		}
		copied := *rec
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []*media.Media{}, total, nil
	}
	end := min(filter.Offset+filter.Limit, len(matched))
	return matched[filter.Offset:end], total, nil
}

// countingBackend records which write path each upload took.
type countingBackend struct {
	*storage.MemoryStorage
	mu        sync.Mutex
	initiated int
	puts      []string
}

func (c *countingBackend) InitiateMultipart(ctx context.Context, bucket, key, contentType string) (string, error) {
	c.mu.Lock()
	c.initiated++
	c.mu.Unlock()
	return c.MemoryStorage.InitiateMultipart(ctx, bucket, key, contentType)
}

func (c *countingBackend) PutObject(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	c.mu.Lock()
	c.puts = append(c.puts, key)
	c.mu.Unlock()
	return c.MemoryStorage.PutObject(ctx, bucket, key, body, size, contentType)
}

type fixture struct {
	cfg      *config.Config
	backend  *countingBackend
	repo     *memoryRepository
	ingestor *media.Ingestor
	service  *media.Service
	cleanups []string
}

func newFixture(t *testing.T, mutate func(cfg *config.Config)) *fixture {
	t.Helper()
	cfg := &config.Config{
		StorageBackend:   "memory",
		S3Bucket:         "media",
		MaxMediaBytes:    50 * mib,
		ChunkSize:        5 * mib,
		AllowedFolders:   []string{"feed", "general"},
		DefaultFolder:    "general",
		TempDir:          t.TempDir(),
		BulkMaxFiles:     20,
		BulkConcurrency:  4,
		ThumbnailMaxSize: 200,
	}
	if mutate != nil {
		mutate(cfg)
	}

	signer, err := storage.NewURLSigner("secret", "http://localhost:8285/v1/files")
	require.NoError(t, err)
	backend := &countingBackend{MemoryStorage: storage.NewMemoryStorage(signer, zerolog.Nop())}

	f := &fixture{cfg: cfg, backend: backend, repo: newMemoryRepository()}
	engine := multipart.NewEngine(backend, multipart.Options{ChunkSize: cfg.ChunkSize}, zerolog.Nop())
	thumbs := thumbnail.NewGenerator(backend, thumbnail.Options{MaxSize: cfg.ThumbnailMaxSize}, zerolog.Nop())
	dest := objectstore.Destination{Bucket: cfg.S3Bucket}
	hooks := media.Hooks{CleanupFailed: func(stage string) { f.cleanups = append(f.cleanups, stage) }}
	f.ingestor = media.NewIngestor(backend, engine, thumbs, dest, media.PolicyFromConfig(cfg), hooks, zerolog.Nop())
	issuer := signing.NewIssuer(backend, cfg.S3Bucket, 0, 0)
	f.service = media.NewService(cfg, f.repo, backend, f.ingestor, issuer, zerolog.Nop())
	return f
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

// padTo grows data to size bytes; JPEG decoders ignore trailing bytes after EOI.
func padTo(data []byte, size int) []byte {
	if len(data) >= size {
		return data
	}
	return append(data, make([]byte, size-len(data))...)
}

func (f *fixture) get(t *testing.T, key string) *objectstore.Object {
	t.Helper()
	obj, err := f.backend.GetObject(context.Background(), "media", key)
	require.NoError(t, err)
	return obj
}

func (f *fixture) missing(t *testing.T, key string) {
	t.Helper()
	_, err := f.backend.GetObject(context.Background(), "media", key)
	assert.True(t, objectstore.IsNotFound(err), "expected %s to be absent, got %v", key, err)
}

func TestUploadSmallJPEGTakesSinglePath(t *testing.T) {
	f := newFixture(t, nil)
	data := padTo(encodeJPEG(t, 800, 600), mib)
	require.Equal(t, mib, len(data))

	result, err := f.service.Upload(context.Background(), media.UploadRequest{
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: "image/jpeg",
		Filename:    "Holiday.JPG",
		Folder:      "feed",
		UserID:      "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, string(multipart.PathSingle), result.UploadPath)
	assert.Zero(t, f.backend.initiated, "no multipart session is opened")
	assert.Zero(t, f.backend.OpenSessions())
	assert.True(t, strings.HasPrefix(result.Key, "feed/"))
	assert.True(t, strings.HasSuffix(result.Key, ".jpg"))
	assert.Equal(t, "Holiday.JPG", result.Filename)
	assert.Equal(t, media.MediaTypeImage, result.MediaType)
	assert.Equal(t, int64(mib), result.Size)
	assert.Contains(t, result.URL, "?token=")
	require.NotNil(t, result.ExpiresAt)

	require.NotNil(t, result.Thumbnail)
	assert.Equal(t, 200, result.Thumbnail.Width)
	assert.Equal(t, 150, result.Thumbnail.Height)
	assert.Contains(t, result.Thumbnail.URL, "/thumbnails/")

	primary := f.get(t, result.Key)
	primary.Body.Close()
	assert.Equal(t, int64(mib), primary.ContentLength)

	thumb := f.get(t, result.Thumbnail.Key)
	defer thumb.Body.Close()
	cfg, _, err := image.DecodeConfig(thumb.Body)
	require.NoError(t, err)
	assert.LessOrEqual(t, max(cfg.Width, cfg.Height), 200)

	record, err := f.repo.GetByID(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Key, record.Key)
	assert.Equal(t, result.Thumbnail.Key, record.ThumbnailKey)
	assert.Equal(t, "memory", record.StorageProvider)
	assert.Equal(t, "user-1", record.UploadedBy)
}

func TestUploadRouting(t *testing.T) {
	tests := []struct {
		name        string
		always      []string
		size        int
		contentType string
		wantPath    multipart.Path
		wantParts   int
	}{
		{"small video is single", nil, mib, "video/mp4", multipart.PathSingle, 0},
		{"exactly one chunk is single", nil, 5 * mib, "video/mp4", multipart.PathSingle, 0},
		{"large video is multipart", nil, 12 * mib, "video/mp4", multipart.PathMultipart, 3},
		{"always-multipart type", []string{"video/webm"}, mib, "video/webm", multipart.PathMultipart, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(cfg *config.Config) { cfg.AlwaysMultipartTypes = tt.always })
			data := bytes.Repeat([]byte{0x42}, tt.size)

			result, err := f.service.Upload(context.Background(), media.UploadRequest{
				Body:        bytes.NewReader(data),
				Size:        int64(len(data)),
				ContentType: tt.contentType,
				Filename:    "clip",
			})
			require.NoError(t, err)
			assert.Equal(t, string(tt.wantPath), result.UploadPath)
			assert.Equal(t, tt.wantParts, result.Parts)
			assert.Nil(t, result.Thumbnail, "videos have no thumbnail")
			assert.True(t, strings.HasPrefix(result.Key, "general/"), "default folder applies")

			obj := f.get(t, result.Key)
			obj.Body.Close()
			assert.Equal(t, int64(tt.size), obj.ContentLength)
		})
	}
}

func TestUploadCorruptImageSucceedsWithoutThumbnail(t *testing.T) {
	f := newFixture(t, nil)
	data := []byte("\xff\xd8\xff\xe0 definitely not a complete jpeg")

	result, err := f.service.Upload(context.Background(), media.UploadRequest{
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: "image/jpeg",
		Filename:    "broken.jpg",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Thumbnail)

	obj := f.get(t, result.Key)
	obj.Body.Close()
	record, err := f.repo.GetByID(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Empty(t, record.ThumbnailKey)
}

func TestUploadSniffsGenericContentType(t *testing.T) {
	f := newFixture(t, nil)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 10, 10))))

	result, err := f.service.Upload(context.Background(), media.UploadRequest{
		Body:        bytes.NewReader(buf.Bytes()),
		Size:        int64(buf.Len()),
		ContentType: "application/octet-stream",
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Key, ".png"), "extension comes from the sniffed type")
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name string
		req  media.UploadRequest
		cfg  func(cfg *config.Config)
		want string
	}{
		{"empty file", media.UploadRequest{Body: bytes.NewReader(nil), Size: 0, ContentType: "image/png"}, nil, "file is empty"},
		{"missing body", media.UploadRequest{ContentType: "image/png"}, nil, "file is required"},
		{"declared too large", media.UploadRequest{Body: bytes.NewReader([]byte("x")), Size: 51 * mib, ContentType: "video/mp4"}, nil, "exceeds max size"},
		{"streamed too large", media.UploadRequest{Body: strings.NewReader(strings.Repeat("x", 2048)), Size: -1, ContentType: "video/mp4"}, func(cfg *config.Config) { cfg.MaxMediaBytes = 1024 }, "exceeds max size"},
		{"size mismatch", media.UploadRequest{Body: strings.NewReader("abc"), Size: 10, ContentType: "video/mp4"}, nil, "declared 10"},
		{"unsupported type", media.UploadRequest{Body: bytes.NewReader([]byte("%PDF-1.4")), Size: 8, ContentType: "application/pdf"}, nil, "unsupported content type"},
		{"folder not allowed", media.UploadRequest{Body: bytes.NewReader([]byte("x")), Size: 1, ContentType: "video/mp4", Folder: "secrets"}, nil, "folder \"secrets\" is not allowed"},
		{"public visibility", media.UploadRequest{Body: bytes.NewReader([]byte("x")), Size: 1, ContentType: "video/mp4", Visibility: objectstore.VisibilityPublic}, nil, "visibility"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.cfg)
			_, err := f.service.Upload(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, failure.Is(err, failure.ReasonValidation), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, f.backend.puts, "nothing is written for invalid uploads")
			assert.Zero(t, f.backend.initiated)
		})
	}
}

func TestUploadSpoolsStreamsAndCleansUp(t *testing.T) {
	f := newFixture(t, nil)
	data := bytes.Repeat([]byte{7}, 11*mib)

	// io.MultiReader hides the ReaderAt of the underlying readers.
	result, err := f.service.Upload(context.Background(), media.UploadRequest{
		Body:        io.MultiReader(bytes.NewReader(data)),
		Size:        -1,
		ContentType: "video/mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, string(multipart.PathMultipart), result.UploadPath)
	assert.Equal(t, 3, result.Parts)
	assert.Equal(t, int64(11*mib), result.Size)

	entries, err := os.ReadDir(f.cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "spool file is removed")
}

func TestUploadRecordFailureDeletesObjects(t *testing.T) {
	f := newFixture(t, nil)
	dbErr := platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create media object", errors.New("connection refused"), "")
	var attempted *media.Media
	f.repo.createFunc = func(ctx context.Context, obj *media.Media) error {
		attempted = obj
		return dbErr
	}
	data := encodeJPEG(t, 300, 300)

	_, err := f.service.Upload(context.Background(), media.UploadRequest{
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: "image/jpeg",
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeDatabaseError))

	require.NotNil(t, attempted)
	require.NotEmpty(t, attempted.ThumbnailKey)
	f.missing(t, attempted.Key)
	f.missing(t, attempted.ThumbnailKey)
	assert.Empty(t, f.cleanups)
}

func TestUploadBulkPartialSuccess(t *testing.T) {
	f := newFixture(t, nil)
	reqs := []media.UploadRequest{
		{Body: bytes.NewReader([]byte("one")), Size: 3, ContentType: "video/mp4", Filename: "a.mp4"},
		{Body: bytes.NewReader([]byte("two")), Size: 3, ContentType: "text/plain", Filename: "b.txt"},
		{Body: bytes.NewReader([]byte("three")), Size: 5, ContentType: "video/webm", Filename: "c.webm"},
	}

	bulk, err := f.service.UploadBulk(context.Background(), reqs)
	require.NoError(t, err)
	assert.Equal(t, media.BulkSummary{Total: 3, Uploaded: 2, Failed: 1}, bulk.Summary)
	require.Len(t, bulk.Uploaded, 2)
	assert.Equal(t, "a.mp4", bulk.Uploaded[0].Filename)
	assert.Equal(t, "c.webm", bulk.Uploaded[1].Filename)
	require.Len(t, bulk.Failed, 1)
	assert.Equal(t, 1, bulk.Failed[0].Index)
	assert.Equal(t, "b.txt", bulk.Failed[0].Filename)
	assert.Equal(t, failure.ReasonValidation.String(), bulk.Failed[0].Reason)
}

func TestUploadBulkLimits(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.BulkMaxFiles = 2 })

	_, err := f.service.UploadBulk(context.Background(), nil)
	assert.True(t, failure.Is(err, failure.ReasonValidation))

	reqs := make([]media.UploadRequest, 3)
	_, err = f.service.UploadBulk(context.Background(), reqs)
	assert.True(t, failure.Is(err, failure.ReasonValidation))

	bulk, err := f.service.UploadBulk(context.Background(), reqs[:2])
	require.Error(t, err, "all failed returns the first error")
	assert.Equal(t, 2, bulk.Summary.Failed)
}

func TestPresignAndDelete(t *testing.T) {
	f := newFixture(t, nil)
	data := encodeJPEG(t, 64, 64)
	result, err := f.service.Upload(context.Background(), media.UploadRequest{
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: "image/jpeg",
		Filename:    "a.jpg",
	})
	require.NoError(t, err)

	presigned, err := f.service.Presign(context.Background(), result.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, result.Key, presigned.Key)
	assert.Contains(t, presigned.URL, "token=")
	require.NotNil(t, presigned.Thumbnail)

	_, err = f.service.Presign(context.Background(), result.ID, signing.MaxTTL+1)
	assert.True(t, failure.Is(err, failure.ReasonValidation))

	obj, record, err := f.service.Download(context.Background(), result.ID)
	require.NoError(t, err)
	obj.Body.Close()
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Equal(t, result.Key, record.Key)

	require.NoError(t, f.service.Delete(context.Background(), result.ID))
	f.missing(t, result.Key)
	f.missing(t, result.Thumbnail.Key)

	_, err = f.service.Get(context.Background(), result.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	err = f.service.Delete(context.Background(), result.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	_, err = f.service.Get(context.Background(), "not-an-id")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func seedRecords(t *testing.T, f *fixture) {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seed := []struct {
		id, folder, user string
		deleted          bool
	}{
		{"med_01", "feed", "user-1", false},
		{"med_02", "feed", "user-2", false},
		{"med_03", "general", "user-1", false},
		{"med_04", "feed", "user-1", true},
		{"med_05", "feed", "user-1", false},
	}
	for i, s := range seed {
		rec := &media.Media{
			ID:          s.id,
			Bucket:      "media",
			Key:         s.folder + "/" + s.id + ".jpg",
			Folder:      s.folder,
			Filename:    s.id + ".jpg",
			ContentType: "image/jpeg",
			MediaType:   media.MediaTypeImage,
			UploadPath:  string(multipart.PathSingle),
			UploadedBy:  s.user,
			IsDeleted:   s.deleted,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if s.id == "med_05" {
			rec.ThumbnailKey = "feed/thumbnails/med_05.jpg"
		}
		require.NoError(t, f.repo.Create(context.Background(), rec))
	}
}

func TestList(t *testing.T) {
	f := newFixture(t, nil)
	seedRecords(t, f)

	tests := []struct {
		name     string
		query    media.ListQuery
		wantIDs  []string
		wantPage media.Pagination
	}{
		{
			name:     "everything newest first",
			query:    media.ListQuery{},
			wantIDs:  []string{"med_05", "med_03", "med_02", "med_01"},
			wantPage: media.Pagination{Page: 1, Limit: media.DefaultListLimit, Total: 4, TotalPages: 1},
		},
		{
			name:     "feed of one user",
			query:    media.ListQuery{Folder: "feed", UserID: "user-1"},
			wantIDs:  []string{"med_05", "med_01"},
			wantPage: media.Pagination{Page: 1, Limit: media.DefaultListLimit, Total: 2, TotalPages: 1},
		},
		{
			name:     "second page",
			query:    media.ListQuery{Page: 2, Limit: 3},
			wantIDs:  []string{"med_01"},
			wantPage: media.Pagination{Page: 2, Limit: 3, Total: 4, TotalPages: 2, HasPrevious: true},
		},
		{
			name:     "page past the end",
			query:    media.ListQuery{Page: 9, Limit: 3},
			wantIDs:  []string{},
			wantPage: media.Pagination{Page: 9, Limit: 3, Total: 4, TotalPages: 2, HasPrevious: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.List(context.Background(), tt.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(result.Items))
			for _, item := range result.Items {
				ids = append(ids, item.ID)
				assert.Contains(t, item.URL, "?token=")
			}
			assert.Equal(t, tt.wantIDs, ids)

			got := result.Pagination
			got.NextPage, got.PreviousPage = nil, nil
			assert.Equal(t, tt.wantPage, got)
			if tt.wantPage.HasPrevious {
				require.NotNil(t, result.Pagination.PreviousPage)
				assert.Equal(t, tt.wantPage.Page-1, *result.Pagination.PreviousPage)
			}
		})
	}
}

func TestListSignsThumbnailsAndPaginates(t *testing.T) {
	f := newFixture(t, nil)
	seedRecords(t, f)

	result, err := f.service.List(context.Background(), media.ListQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	item := result.Items[0]
	require.NotNil(t, item.Thumbnail)
	assert.Equal(t, "feed/thumbnails/med_05.jpg", item.Thumbnail.Key)
	assert.Contains(t, item.Thumbnail.URL, "?token=")

	require.NotNil(t, result.Pagination.NextPage)
	assert.Equal(t, 2, *result.Pagination.NextPage)
	assert.Nil(t, result.Pagination.PreviousPage)
}

func TestListValidation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.service.List(context.Background(), media.ListQuery{Limit: media.MaxListLimit + 1})
	assert.True(t, failure.Is(err, failure.ReasonValidation))

	_, err = f.service.List(context.Background(), media.ListQuery{Folder: "private"})
	assert.True(t, failure.Is(err, failure.ReasonValidation))
}

func TestListLeavesURLEmptyWhenSigningFails(t *testing.T) {
	f := newFixture(t, nil)
	seedRecords(t, f)

	unsigned := storage.NewMemoryStorage(nil, zerolog.Nop())
	issuer := signing.NewIssuer(unsigned, "media", 0, 0)
	service := media.NewService(f.cfg, f.repo, f.backend, f.ingestor, issuer, zerolog.Nop())

	result, err := service.List(context.Background(), media.ListQuery{Folder: "feed"})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	for _, item := range result.Items {
		assert.Empty(t, item.URL)
		assert.Nil(t, item.ExpiresAt)
	}
	require.NotNil(t, result.Items[0].Thumbnail)
	assert.Empty(t, result.Items[0].Thumbnail.URL)
}
