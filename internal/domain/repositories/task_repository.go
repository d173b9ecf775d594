package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/entities"
)

// TaskRepository defines task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	List(ctx context.Context) ([]*entities.Task, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entities.Task, error)
	// UpdateStatus sets the status column only
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TaskStatus) error
	// UpdateBudgetAndStatus overwrites the suggested budget and status in one
	// write (counter-offer)
	UpdateBudgetAndStatus(ctx context.Context, id uuid.UUID, budget float64, status entities.TaskStatus) error
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}
