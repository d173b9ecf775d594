package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null"`
	SenderID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}
