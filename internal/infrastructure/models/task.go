package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title           string    `gorm:"type:varchar(255);not null"`
	Description     string    `gorm:"type:text;not null"`
	SuggestedBudget float64   `gorm:"not null"`
	Currency        string    `gorm:"type:varchar(10);not null"`
	Urgency         string    `gorm:"type:varchar(50)"`
	TargetDate      time.Time
	Status          string    `gorm:"type:varchar(50);not null;default:'SUBMITTED';index"`
	ClientID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}
