package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/authz"
	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/interfaces/http/middleware"
	"taskbridge.backend/internal/interfaces/http/response"
	"taskbridge.backend/internal/usecases"
)

// TaskHandler handles task lifecycle endpoints
type TaskHandler struct {
	taskUsecase *usecases.TaskUsecase
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskUsecase *usecases.TaskUsecase) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

// Create submits a new task
// POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var input entities.CreateTaskInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	task, err := h.taskUsecase.Create(c.Request.Context(), caller.UserID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"task": task})
}

// List returns every task for admins, own tasks for clients
// GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	tasks, err := h.taskUsecase.List(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tasks": tasks})
}

// ListOwn returns the caller's own tasks regardless of role
// GET /api/v1/tasks/my
func (h *TaskHandler) ListOwn(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	tasks, err := h.taskUsecase.ListOwn(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tasks": tasks})
}

// Get returns a single task with derived payment and analysis fields
// GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	caller, taskID, ok := h.callerAndTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskUsecase.Get(c.Request.Context(), caller, taskID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Task not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// Accept moves a submitted task to ACCEPTED
// POST /api/v1/tasks/:id/accept
func (h *TaskHandler) Accept(c *gin.Context) {
	caller, taskID, ok := h.callerAndTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskUsecase.Accept(c.Request.Context(), caller, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// CounterOffer proposes a revised budget and returns the task to SUBMITTED
// POST /api/v1/tasks/:id/counter-offer
func (h *TaskHandler) CounterOffer(c *gin.Context) {
	caller, taskID, ok := h.callerAndTaskID(c)
	if !ok {
		return
	}

	var input entities.CounterOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	task, err := h.taskUsecase.CounterOffer(c.Request.Context(), caller, taskID, input.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// Complete marks an accepted or in-progress task COMPLETED
// POST /api/v1/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	caller, taskID, ok := h.callerAndTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskUsecase.Complete(c.Request.Context(), caller, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// OverrideStatus sets a task to an arbitrary valid status
// PATCH /api/v1/tasks/:id/status
func (h *TaskHandler) OverrideStatus(c *gin.Context) {
	caller, taskID, ok := h.callerAndTaskID(c)
	if !ok {
		return
	}

	var input entities.UpdateTaskStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	task, err := h.taskUsecase.OverrideStatus(c.Request.Context(), caller, taskID, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// callerAndTaskID pulls the authenticated caller and the :id path parameter,
// writing the error response itself when either is missing.
func (h *TaskHandler) callerAndTaskID(c *gin.Context) (authz.Caller, uuid.UUID, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return authz.Caller{}, uuid.Nil, false
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid task ID"))
		return authz.Caller{}, uuid.Nil, false
	}

	return caller, taskID, true
}
