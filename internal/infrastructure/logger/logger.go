package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/janhq/media-gateway/internal/config"
)

// New creates a zerolog.Logger configured for the media gateway.
// Production logs are JSON lines; everything else uses the console writer.
func New(cfg *config.Config) zerolog.Logger {
	if cfg.Environment == "production" {
		return NewWithWriter(cfg, os.Stdout)
	}
	return NewWithWriter(cfg, zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
}

// NewWithWriter is New with a caller supplied sink.
func NewWithWriter(cfg *config.Config, out io.Writer) zerolog.Logger {
	return log.Output(out).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger().
		Level(parseLevel(cfg.LogLevel))
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
