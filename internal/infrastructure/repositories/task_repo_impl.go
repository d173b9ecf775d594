package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/infrastructure/models"
)

// TaskRepository implements task data operations
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *entities.Task) error {
	m := &models.Task{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		SuggestedBudget: task.SuggestedBudget,
		Currency:        task.Currency,
		Urgency:         task.Urgency,
		TargetDate:      task.TargetDate,
		Status:          string(task.Status),
		ClientID:        task.ClientID,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID gets a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	var m models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return taskToEntity(&m), nil
}

// List lists all tasks, newest first
func (r *TaskRepository) List(ctx context.Context) ([]*entities.Task, error) {
	var taskModels []models.Task
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&taskModels).Error; err != nil {
		return nil, err
	}
	tasks := make([]*entities.Task, 0, len(taskModels))
	for i := range taskModels {
		tasks = append(tasks, taskToEntity(&taskModels[i]))
	}
	return tasks, nil
}

// ListByClient lists the client's own tasks, newest first
func (r *TaskRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entities.Task, error) {
	var taskModels []models.Task
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&taskModels).Error
	if err != nil {
		return nil, err
	}
	tasks := make([]*entities.Task, 0, len(taskModels))
	for i := range taskModels {
		tasks = append(tasks, taskToEntity(&taskModels[i]))
	}
	return tasks, nil
}

// UpdateStatus sets the status column only
func (r *TaskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TaskStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateBudgetAndStatus overwrites budget and status in one write
func (r *TaskRepository) UpdateBudgetAndStatus(ctx context.Context, id uuid.UUID, budget float64, status entities.TaskStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"suggested_budget": budget,
		"status":           string(status),
		"updated_at":       time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountByClient returns the number of tasks owned by the client
func (r *TaskRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}

// Count returns the total number of tasks
func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Count(&count).Error
	return count, err
}

func taskToEntity(m *models.Task) *entities.Task {
	return &entities.Task{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		SuggestedBudget: m.SuggestedBudget,
		Currency:        m.Currency,
		Urgency:         m.Urgency,
		TargetDate:      m.TargetDate,
		Status:          entities.TaskStatus(m.Status),
		ClientID:        m.ClientID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
