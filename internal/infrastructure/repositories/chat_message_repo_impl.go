package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskbridge.backend/internal/domain/entities"
	"taskbridge.backend/internal/infrastructure/models"
)

// ChatMessageRepository implements chat message persistence
type ChatMessageRepository struct {
	db *gorm.DB
}

// NewChatMessageRepository creates a new chat message repository
func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

// Create persists one chat message
func (r *ChatMessageRepository) Create(ctx context.Context, message *entities.ChatMessage) error {
	m := &models.ChatMessage{
		ID:        message.ID,
		TaskID:    message.TaskID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// ListByTaskID lists the task's messages oldest first, with sender email
// resolved via join
func (r *ChatMessageRepository) ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*entities.ChatMessage, error) {
	type row struct {
		models.ChatMessage
		SenderEmail string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("chat_messages").
		Select("chat_messages.*, users.email AS sender_email").
		Joins("JOIN users ON users.id = chat_messages.sender_id").
		Where("chat_messages.task_id = ?", taskID).
		Order("chat_messages.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	messages := make([]*entities.ChatMessage, 0, len(rows))
	for i := range rows {
		messages = append(messages, &entities.ChatMessage{
			ID:          rows[i].ID,
			TaskID:      rows[i].TaskID,
			SenderID:    rows[i].SenderID,
			SenderEmail: rows[i].SenderEmail,
			Content:     rows[i].Content,
			CreatedAt:   rows[i].CreatedAt,
		})
	}
	return messages, nil
}
