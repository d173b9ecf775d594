package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage represents one chat message exchanged on a task's channel
type ChatMessage struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"taskId"`
	SenderID    uuid.UUID `json:"senderId"`
	SenderEmail string    `json:"senderEmail,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}
