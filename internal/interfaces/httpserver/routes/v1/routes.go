package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/media-gateway/internal/interfaces/httpserver/handlers"
)

type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(h *handlers.Provider) *Routes {
	return &Routes{handlers: h}
}

// Register mounts the v1 API. protected guards the media endpoints; signed
// file downloads carry their own token.
func (r *Routes) Register(router gin.IRouter, protected ...gin.HandlerFunc) {
	v1 := router.Group("/v1")

	media := v1.Group("/media", protected...)
	media.GET("", r.handlers.Media.List)
	media.POST("/upload", r.handlers.Media.Upload)
	media.POST("/upload-bulk", r.handlers.Media.UploadBulk)
	media.GET("/:id", r.handlers.Media.Download)
	media.GET("/:id/presign", r.handlers.Media.Presign)
	media.DELETE("/:id", r.handlers.Media.Delete)

	if r.handlers.Files != nil {
		v1.GET("/files/*key", r.handlers.Files.Serve)
	}
}
