package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/entities"
)

// TaskAnalysisRepository defines analysis result persistence
type TaskAnalysisRepository interface {
	Create(ctx context.Context, analysis *entities.TaskAnalysis) error
	GetByTaskID(ctx context.Context, taskID uuid.UUID) (*entities.TaskAnalysis, error)
}
