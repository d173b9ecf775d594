package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/infrastructure/models"
)

// TaskFileRepository implements attachment data operations
type TaskFileRepository struct {
	db *gorm.DB
}

// NewTaskFileRepository creates a new task file repository
func NewTaskFileRepository(db *gorm.DB) *TaskFileRepository {
	return &TaskFileRepository{db: db}
}

// Create creates a new attachment row including the owned byte copy
func (r *TaskFileRepository) Create(ctx context.Context, file *entities.TaskFile) error {
	m := &models.TaskFile{
		ID:        file.ID,
		TaskID:    file.TaskID,
		FileName:  file.FileName,
		FileKey:   file.FileKey,
		MimeType:  file.MimeType,
		Size:      file.Size,
		Data:      file.Data,
		CreatedAt: file.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID loads the full row scoped to the task
func (r *TaskFileRepository) GetByID(ctx context.Context, taskID, fileID uuid.UUID) (*entities.TaskFile, error) {
	var m models.TaskFile
	err := r.db.WithContext(ctx).
		Where("id = ? AND task_id = ?", fileID, taskID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return taskFileToEntity(&m), nil
}

// GetByKey loads the full row by its unique storage key
func (r *TaskFileRepository) GetByKey(ctx context.Context, fileKey string) (*entities.TaskFile, error) {
	var m models.TaskFile
	if err := r.db.WithContext(ctx).Where("file_key = ?", fileKey).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return taskFileToEntity(&m), nil
}

// ListByTaskID lists attachments for the task. The byte copy is not loaded.
func (r *TaskFileRepository) ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*entities.TaskFile, error) {
	var fileModels []models.TaskFile
	err := r.db.WithContext(ctx).
		Select("id", "task_id", "file_name", "file_key", "mime_type", "size", "created_at").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&fileModels).Error
	if err != nil {
		return nil, err
	}
	files := make([]*entities.TaskFile, 0, len(fileModels))
	for i := range fileModels {
		files = append(files, taskFileToEntity(&fileModels[i]))
	}
	return files, nil
}

func taskFileToEntity(m *models.TaskFile) *entities.TaskFile {
	return &entities.TaskFile{
		ID:        m.ID,
		TaskID:    m.TaskID,
		FileName:  m.FileName,
		FileKey:   m.FileKey,
		MimeType:  m.MimeType,
		Size:      m.Size,
		Data:      m.Data,
		CreatedAt: m.CreatedAt,
	}
}
