package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/authz"
	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/domain/repositories"
)

// ChatUsecase handles task channel messaging
type ChatUsecase struct {
	taskRepo repositories.TaskRepository
	chatRepo repositories.ChatMessageRepository
}

// NewChatUsecase creates a new chat usecase
func NewChatUsecase(
	taskRepo repositories.TaskRepository,
	chatRepo repositories.ChatMessageRepository,
) *ChatUsecase {
	return &ChatUsecase{
		taskRepo: taskRepo,
		chatRepo: chatRepo,
	}
}

// SendMessage persists one message on the task's channel. Only the task
// owner and admins may post.
func (u *ChatUsecase) SendMessage(ctx context.Context, caller authz.Caller, taskID uuid.UUID, content string) (*entities.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.BadRequest("message content is empty")
	}

	task, err := u.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.CapOwnerOrAdmin, task.ClientID); err != nil {
		return nil, err
	}

	message := &entities.ChatMessage{
		ID:          uuid.New(),
		TaskID:      taskID,
		SenderID:    caller.UserID,
		SenderEmail: caller.Email,
		Content:     content,
		CreatedAt:   time.Now(),
	}
	if err := u.chatRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// History returns the task's messages oldest first
func (u *ChatUsecase) History(ctx context.Context, caller authz.Caller, taskID uuid.UUID) ([]*entities.ChatMessage, error) {
	task, err := u.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.CapOwnerOrAdmin, task.ClientID); err != nil {
		return nil, err
	}
	return u.chatRepo.ListByTaskID(ctx, taskID)
}
