package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/entities"
)

// ChatMessageRepository defines chat message persistence
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entities.ChatMessage) error
	ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*entities.ChatMessage, error)
}
