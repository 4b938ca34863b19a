package responses

import (
	"bytes"
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

	"github.com/janhq/media-gateway/internal/domain/failure"
	"github.com/janhq/media-gateway/internal/utils/platformerrors"
)

func TestHandleErrorLogsServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantLogged bool
	}{
		{
			name:       "database error",
			err:        platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list media", errors.New("connection reset"), "6b7c8d9e-0f1a-4b2c-9d3e-4f5a6b7c8d9e"),
			wantStatus: http.StatusInternalServerError,
			wantLogged: true,
		},
		{
			name:       "not found",
			err:        platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "media object not found", nil, ""),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "upload validation",
			err:        failure.Validation("file is required"),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := zerolog.New(&logs)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req := httptest.NewRequest(http.MethodGet, "/v1/media", nil)
			c.Request = req.WithContext(logger.WithContext(req.Context()))

			HandleError(c, tt.err, "request failed")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())
			if !tt.wantLogged {
				assert.Empty(t, logs.String())
				return
			}
			var entry map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, "error", entry["level"])
			assert.Equal(t, "6b7c8d9e-0f1a-4b2c-9d3e-4f5a6b7c8d9e", entry["error_uuid"])
			assert.Equal(t, string(platformerrors.ErrorTypeDatabaseError), entry["error_type"])
			assert.Equal(t, "connection reset", entry["error"])
		})
	}
}
