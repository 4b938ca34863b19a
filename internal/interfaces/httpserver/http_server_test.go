package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/infrastructure/storage"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, db Pinger) *HttpServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{ServiceName: "media-gateway", ChunkSize: 5 << 20, BulkMaxFiles: 20, ProxyDownload: true}
	signer, err := storage.NewURLSigner("secret", "http://localhost/v1/files")
	require.NoError(t, err)
	backend := storage.NewMemoryStorage(signer, zerolog.Nop())
	return New(cfg, zerolog.Nop(), nil, backend, signer, nil, db)
}

func TestCoreRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/", "/healthz", "/readyz", "/health/auth", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		})
	}
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	srv := newTestServer(t, pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "ok", body.Checks["storage"])
	assert.Equal(t, "connection refused", body.Checks["database"])
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/files/feed/a.png", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))
	assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)
}
