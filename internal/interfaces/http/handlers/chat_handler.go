package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/interfaces/http/middleware"
	"taskbridge.backend/internal/interfaces/http/response"
	"taskbridge.backend/internal/usecases"
)

// ChatHandler exposes chat history over REST. Live messaging happens on the
// websocket channel; this endpoint backfills history on room join.
type ChatHandler struct {
	chatUsecase *usecases.ChatUsecase
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatUsecase *usecases.ChatUsecase) *ChatHandler {
	return &ChatHandler{chatUsecase: chatUsecase}
}

// History returns a task channel's messages, oldest first
// GET /api/v1/tasks/:id/messages
func (h *ChatHandler) History(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid task ID"))
		return
	}

	messages, err := h.chatUsecase.History(c.Request.Context(), caller, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": messages})
}
