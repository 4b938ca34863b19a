//go:build wireinject

package main

import (
	"context"
	"database/sql"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/config"
	domain "github.com/janhq/media-gateway/internal/domain/media"
	"github.com/janhq/media-gateway/internal/infrastructure/auth"
	"github.com/janhq/media-gateway/internal/infrastructure/database"
	repo "github.com/janhq/media-gateway/internal/infrastructure/repository/media"
	"github.com/janhq/media-gateway/internal/infrastructure/storage"
	"github.com/janhq/media-gateway/internal/interfaces/httpserver"
	"github.com/janhq/media-gateway/internal/interfaces/httpserver/handlers"
)

var storageSet = wire.NewSet(
	storage.NewSignerFromConfig,
	provideStorage,
	provideDestination,
	provideEngine,
	provideThumbnails,
	provideIssuer,
)

var mediaSet = wire.NewSet(
	repo.NewRepository,
	wire.Bind(new(domain.Repository), new(*repo.Repository)),
	domain.PolicyFromConfig,
	provideHooks,
	domain.NewIngestor,
	domain.NewService,
	wire.Bind(new(handlers.MediaService), new(*domain.Service)),
)

// BuildApplication assembles the media gateway with Wire.
func BuildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, error) {
	wire.Build(
		auth.NewValidator,
		database.ConfigFrom,
		newGormDB,
		provideSQLDB,
		wire.Bind(new(httpserver.Pinger), new(*sql.DB)),
		storageSet,
		mediaSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
