package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TaskID            uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount            float64   `gorm:"not null"`
	Currency          string    `gorm:"type:varchar(10);not null"`
	Provider          string    `gorm:"type:varchar(50);not null"`
	ProviderPaymentID string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Status            string    `gorm:"type:varchar(50);not null;default:'PENDING'"`
	TransactionID     *string   `gorm:"type:varchar(100)"`
	VerifiedAt        *time.Time
	CreatedAt         time.Time
}
