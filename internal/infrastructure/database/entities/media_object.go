package entities

import "time"

// MediaObject represents the persisted media metadata.
type MediaObject struct {
	ID              string `gorm:"type:varchar(40);primaryKey"`
	StorageProvider string `gorm:"type:varchar(32);not null"`
	Bucket          string `gorm:"type:varchar(63);not null"`
	StorageKey      string `gorm:"type:varchar(512);uniqueIndex;not null"`
	Folder          string `gorm:"type:varchar(64);index;not null"`
	Filename        string `gorm:"type:varchar(255)"`
	MimeType        string `gorm:"type:varchar(64);not null"`
	MediaType       string `gorm:"type:varchar(16);not null"`
	Bytes           int64  `gorm:"not null"`
	UploadPath      string `gorm:"type:varchar(16);not null"`
	Parts           int    `gorm:"not null"`
	ThumbnailKey    string `gorm:"type:varchar(512)"`
	ThumbnailWidth  int
	ThumbnailHeight int
	ThumbnailBytes  int64
	CreatedBy       string    `gorm:"type:varchar(64);index"`
	IsDeleted       bool      `gorm:"not null;index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (MediaObject) TableName() string {
	return "media_objects"
}
