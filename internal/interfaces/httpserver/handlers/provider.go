package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/config"
	"github.com/janhq/media-gateway/internal/domain/objectstore"
	"github.com/janhq/media-gateway/internal/infrastructure/storage"
)

// Provider wires HTTP handlers.
type Provider struct {
	Media *MediaHandler
	Files *FilesHandler
}

// NewProvider builds the handlers. The files handler exists only when a URL
// signer is configured.
func NewProvider(cfg *config.Config, service MediaService, backend objectstore.Backend, signer *storage.URLSigner, log zerolog.Logger) *Provider {
	provider := &Provider{
		Media: NewMediaHandler(cfg, service, log),
	}
	if signer != nil {
		provider.Files = NewFilesHandler(signer, backend, log)
	}
	return provider
}
