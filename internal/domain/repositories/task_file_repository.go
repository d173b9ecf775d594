package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/entities"
)

// TaskFileRepository defines attachment data operations
type TaskFileRepository interface {
	Create(ctx context.Context, file *entities.TaskFile) error
	// GetByID loads the full row including the owned byte copy
	GetByID(ctx context.Context, taskID, fileID uuid.UUID) (*entities.TaskFile, error)
	GetByKey(ctx context.Context, fileKey string) (*entities.TaskFile, error)
	ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*entities.TaskFile, error)
}
