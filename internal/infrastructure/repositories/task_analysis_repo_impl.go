package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/infrastructure/models"
)

// TaskAnalysisRepository implements analysis result persistence
type TaskAnalysisRepository struct {
	db *gorm.DB
}

// NewTaskAnalysisRepository creates a new task analysis repository
func NewTaskAnalysisRepository(db *gorm.DB) *TaskAnalysisRepository {
	return &TaskAnalysisRepository{db: db}
}

// Create persists an analysis result
func (r *TaskAnalysisRepository) Create(ctx context.Context, analysis *entities.TaskAnalysis) error {
	flags, err := json.Marshal(analysis.RiskFlags)
	if err != nil {
		return err
	}
	m := &models.TaskAnalysis{
		ID:               analysis.ID,
		TaskID:           analysis.TaskID,
		Category:         analysis.Category,
		Complexity:       analysis.Complexity,
		RecommendedPrice: analysis.RecommendedPrice,
		PriorityScore:    analysis.PriorityScore,
		RiskFlags:        string(flags),
		CreatedAt:        analysis.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByTaskID loads the analysis for the task
func (r *TaskAnalysisRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) (*entities.TaskAnalysis, error) {
	var m models.TaskAnalysis
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	var flags []string
	if m.RiskFlags != "" {
		if err := json.Unmarshal([]byte(m.RiskFlags), &flags); err != nil {
			return nil, err
		}
	}

	return &entities.TaskAnalysis{
		ID:               m.ID,
		TaskID:           m.TaskID,
		Category:         m.Category,
		Complexity:       m.Complexity,
		RecommendedPrice: m.RecommendedPrice,
		PriorityScore:    m.PriorityScore,
		RiskFlags:        flags,
		CreatedAt:        m.CreatedAt,
	}, nil
}
