package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskFile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null"`
	FileName  string    `gorm:"type:varchar(255);not null"`
	FileKey   string    `gorm:"type:varchar(512);uniqueIndex;not null"`
	MimeType  string    `gorm:"type:varchar(100)"`
	Size      int64     `gorm:"not null"`
	Data      []byte    `gorm:"type:bytea"`
	CreatedAt time.Time
}
