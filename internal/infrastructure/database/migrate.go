package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/janhq/media-gateway/internal/infrastructure/database/entities"
)

// uploadPathCheck ties the part count to the path that stored the object:
// single-shot rows carry no parts, multipart rows at least one.
const uploadPathCheck = `DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_media_objects_upload_path') THEN
		ALTER TABLE media_objects ADD CONSTRAINT chk_media_objects_upload_path CHECK (
			(upload_path = 'single' AND parts = 0) OR
			(upload_path = 'multipart' AND parts >= 1)
		);
	END IF;
END $$`

// Migrate brings the media_objects table and its constraints up to date.
func Migrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	tx := db.WithContext(ctx)
	if err := tx.AutoMigrate(&entities.MediaObject{}); err != nil {
		return fmt.Errorf("migrate media_objects: %w", err)
	}
	if err := tx.Exec(uploadPathCheck).Error; err != nil {
		return fmt.Errorf("add upload path constraint: %w", err)
	}
	log.Info().Str("table", entities.MediaObject{}.TableName()).Msg("media schema ready")
	return nil
}
