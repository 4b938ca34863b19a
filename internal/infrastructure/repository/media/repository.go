package media

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/janhq/media-gateway/internal/domain/media"
	"github.com/janhq/media-gateway/internal/infrastructure/database/entities"
	"github.com/janhq/media-gateway/internal/utils/platformerrors"
)

// Repository handles media object persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, obj *domain.Media) error {
	entity := toEntity(obj)
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return platformerrors.NewErrorWithContext(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create media object",
			err,
			"9b2e4f5a-6c7d-4e8f-9a0b-1c2d3e4f5a6b",
			map[string]any{"storage_key": obj.Key},
		)
	}
	obj.CreatedAt = entity.CreatedAt
	obj.UpdatedAt = entity.UpdatedAt
	return nil
}

// GetByID returns a live record. Soft-deleted records are reported as not found.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	var entity entities.MediaObject
	err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"media object not found",
				err,
				"1c2d3e4f-5a6b-4c7d-8e9f-0a1b2c3d4e5f",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get media by id",
			err,
			"2d3e4f5a-6b7c-4d8e-9f0a-1b2c3d4e5f6a",
		)
	}
	obj := mapEntity(entity)
	return &obj, nil
}

func (r *Repository) MarkDeleted(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.MediaObject{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to mark media deleted",
			result.Error,
			"3e4f5a6b-7c8d-4e9f-a0b1-2c3d4e5f6a7b",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"media object not found",
			nil,
			"4f5a6b7c-8d9e-4fa0-b1c2-3d4e5f6a7b8c",
		)
	}
	return nil
}

// List returns live records matching filter ordered by creation time, newest
// first, together with the number of matching records.
func (r *Repository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Media, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_deleted = ?", false)
		if filter.Folder != "" {
			db = db.Where("folder = ?", filter.Folder)
		}
		if filter.UserID != "" {
			db = db.Where("created_by = ?", filter.UserID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&entities.MediaObject{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count media",
			err,
			"5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d",
		)
	}
	if total == 0 || int64(filter.Offset) >= total {
		return []*domain.Media{}, total, nil
	}

	var rows []entities.MediaObject
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list media",
			err,
			"6b7c8d9e-0f1a-4b2c-9d3e-4f5a6b7c8d9e",
		)
	}

	items := make([]*domain.Media, 0, len(rows))
	for _, row := range rows {
		obj := mapEntity(row)
		items = append(items, &obj)
	}
	return items, total, nil
}

func toEntity(obj *domain.Media) entities.MediaObject {
	return entities.MediaObject{
		ID:              obj.ID,
		StorageProvider: obj.StorageProvider,
		Bucket:          obj.Bucket,
		StorageKey:      obj.Key,
		Folder:          obj.Folder,
		Filename:        obj.Filename,
		MimeType:        obj.ContentType,
		MediaType:       string(obj.MediaType),
		Bytes:           obj.Size,
		UploadPath:      obj.UploadPath,
		Parts:           obj.Parts,
		ThumbnailKey:    obj.ThumbnailKey,
		ThumbnailWidth:  obj.ThumbnailWidth,
		ThumbnailHeight: obj.ThumbnailHeight,
		ThumbnailBytes:  obj.ThumbnailSize,
		CreatedBy:       obj.UploadedBy,
		IsDeleted:       obj.IsDeleted,
		CreatedAt:       obj.CreatedAt,
	}
}

func mapEntity(entity entities.MediaObject) domain.Media {
	return domain.Media{
		ID:              entity.ID,
		StorageProvider: entity.StorageProvider,
		Bucket:          entity.Bucket,
		Key:             entity.StorageKey,
		Folder:          entity.Folder,
		Filename:        entity.Filename,
		ContentType:     entity.MimeType,
		MediaType:       domain.MediaType(entity.MediaType),
		Size:            entity.Bytes,
		UploadPath:      entity.UploadPath,
		Parts:           entity.Parts,
		ThumbnailKey:    entity.ThumbnailKey,
		ThumbnailWidth:  entity.ThumbnailWidth,
		ThumbnailHeight: entity.ThumbnailHeight,
		ThumbnailSize:   entity.ThumbnailBytes,
		UploadedBy:      entity.CreatedBy,
		IsDeleted:       entity.IsDeleted,
		CreatedAt:       entity.CreatedAt,
		UpdatedAt:       entity.UpdatedAt,
	}
}
