package entities

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents one issued refresh credential. A token is
// consumable exactly once: rotation deletes the row and issues a new one.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
