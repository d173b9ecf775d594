package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskAnalysis struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TaskID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Category         string    `gorm:"type:varchar(100)"`
	Complexity       string    `gorm:"type:varchar(50)"`
	RecommendedPrice float64
	PriorityScore    int
	RiskFlags        string `gorm:"type:text"` // JSON-encoded string array
	CreatedAt        time.Time
}

func (TaskAnalysis) TableName() string {
	return "task_analyses"
}
