package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskbridge.backend/internal/domain/authz"
	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/domain/repositories"
	"taskbridge.backend/pkg/logger"
	"taskbridge.backend/pkg/workerpool"
)

// defaultTargetWindow is applied when a task is created without a target date
const defaultTargetWindow = 7 * 24 * time.Hour

// analysisTimeout bounds one background analysis run
const analysisTimeout = 2 * time.Minute

// TaskAnalyzer produces an advisory assessment of a task
type TaskAnalyzer interface {
	Enabled() bool
	AnalyzeTask(ctx context.Context, taskID uuid.UUID, title, description string) (*entities.TaskAnalysis, error)
}

// TaskUsecase handles task lifecycle business logic
type TaskUsecase struct {
	taskRepo     repositories.TaskRepository
	paymentRepo  repositories.PaymentRepository
	analysisRepo repositories.TaskAnalysisRepository
	analyzer     TaskAnalyzer
	pool         *workerpool.Pool
}

// NewTaskUsecase creates a new task usecase
func NewTaskUsecase(
	taskRepo repositories.TaskRepository,
	paymentRepo repositories.PaymentRepository,
	analysisRepo repositories.TaskAnalysisRepository,
	analyzer TaskAnalyzer,
	pool *workerpool.Pool,
) *TaskUsecase {
	return &TaskUsecase{
		taskRepo:     taskRepo,
		paymentRepo:  paymentRepo,
		analysisRepo: analysisRepo,
		analyzer:     analyzer,
		pool:         pool,
	}
}

// Create submits a new task for the client. Analysis is queued in the
// background and never blocks or fails the submission.
func (u *TaskUsecase) Create(ctx context.Context, clientID uuid.UUID, input *entities.CreateTaskInput) (*entities.Task, error) {
	now := time.Now()
	targetDate := now.Add(defaultTargetWindow)
	if input.TargetDate != nil {
		targetDate = *input.TargetDate
	}

	task := &entities.Task{
		ID:              uuid.New(),
		Title:           input.Title,
		Description:     input.Description,
		SuggestedBudget: input.Budget,
		Currency:        input.Currency,
		Urgency:         input.Urgency,
		TargetDate:      targetDate,
		Status:          entities.TaskStatusSubmitted,
		ClientID:        clientID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	u.queueAnalysis(task)

	return task, nil
}

func (u *TaskUsecase) queueAnalysis(task *entities.Task) {
	if u.analyzer == nil || !u.analyzer.Enabled() || u.pool == nil {
		return
	}

	taskID := task.ID
	title := task.Title
	description := task.Description
	err := u.pool.Submit(func() error {
		// detached from the request context: the submission response has
		// long been sent by the time this runs
		ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
		defer cancel()

		result, err := u.analyzer.AnalyzeTask(ctx, taskID, title, description)
		if err != nil {
			return err
		}
		return u.analysisRepo.Create(ctx, result)
	})
	if err != nil {
		logger.Warn(context.Background(), "Task analysis not queued", zap.String("task_id", taskID.String()), zap.Error(err))
	}
}

// List returns tasks visible to the caller: admins see every task, clients
// only their own.
func (u *TaskUsecase) List(ctx context.Context, caller authz.Caller) ([]*entities.TaskView, error) {
	var tasks []*entities.Task
	var err error
	if caller.IsAdmin() {
		tasks, err = u.taskRepo.List(ctx)
	} else {
		tasks, err = u.taskRepo.ListByClient(ctx, caller.UserID)
	}
	if err != nil {
		return nil, err
	}
	return u.buildViews(ctx, caller, tasks)
}

// ListOwn returns the caller's own tasks regardless of role
func (u *TaskUsecase) ListOwn(ctx context.Context, caller authz.Caller) ([]*entities.TaskView, error) {
	tasks, err := u.taskRepo.ListByClient(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return u.buildViews(ctx, caller, tasks)
}

// Get returns one task, visible only to its owner or an admin
func (u *TaskUsecase) Get(ctx context.Context, caller authz.Caller, id uuid.UUID) (*entities.TaskView, error) {
	task, err := u.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.CapOwnerOrAdmin, task.ClientID); err != nil {
		return nil, err
	}
	return u.buildView(ctx, caller, task)
}

// Accept moves a task to ACCEPTED. Accepting an already accepted task is a
// no-op rather than an error.
func (u *TaskUsecase) Accept(ctx context.Context, caller authz.Caller, id uuid.UUID) (*entities.Task, error) {
	if err := authz.Authorize(caller, authz.CapAdminOnly, uuid.Nil); err != nil {
		return nil, err
	}

	task, err := u.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == entities.TaskStatusAccepted {
		return task, nil
	}

	if err := u.taskRepo.UpdateStatus(ctx, id, entities.TaskStatusAccepted); err != nil {
		return nil, err
	}
	task.Status = entities.TaskStatusAccepted
	return task, nil
}

// CounterOffer replaces the suggested budget and forces the task back to
// SUBMITTED so the client sees a fresh proposal to act on.
func (u *TaskUsecase) CounterOffer(ctx context.Context, caller authz.Caller, id uuid.UUID, amount float64) (*entities.Task, error) {
	if err := authz.Authorize(caller, authz.CapAdminOnly, uuid.Nil); err != nil {
		return nil, err
	}

	task, err := u.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// No amount validation: the value is written through as-is.
	if err := u.taskRepo.UpdateBudgetAndStatus(ctx, id, amount, entities.TaskStatusSubmitted); err != nil {
		return nil, err
	}
	task.SuggestedBudget = amount
	task.Status = entities.TaskStatusSubmitted
	return task, nil
}

// Complete moves a task to COMPLETED
func (u *TaskUsecase) Complete(ctx context.Context, caller authz.Caller, id uuid.UUID) (*entities.Task, error) {
	if err := authz.Authorize(caller, authz.CapAdminOnly, uuid.Nil); err != nil {
		return nil, err
	}

	task, err := u.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.taskRepo.UpdateStatus(ctx, id, entities.TaskStatusCompleted); err != nil {
		return nil, err
	}
	task.Status = entities.TaskStatusCompleted
	return task, nil
}

// OverrideStatus sets an arbitrary valid status. It touches the status
// column only; budget, payments and analysis are left alone.
func (u *TaskUsecase) OverrideStatus(ctx context.Context, caller authz.Caller, id uuid.UUID, status entities.TaskStatus) (*entities.Task, error) {
	if err := authz.Authorize(caller, authz.CapAdminOnly, uuid.Nil); err != nil {
		return nil, err
	}
	if !entities.ValidTaskStatus(status) {
		return nil, domainerrors.BadRequest("invalid task status")
	}

	task, err := u.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.taskRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	task.Status = status
	return task, nil
}

func (u *TaskUsecase) buildViews(ctx context.Context, caller authz.Caller, tasks []*entities.Task) ([]*entities.TaskView, error) {
	views := make([]*entities.TaskView, 0, len(tasks))
	for _, task := range tasks {
		view, err := u.buildView(ctx, caller, task)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// buildView derives the presentation fields: latest payment status (UNPAID
// when the task has no payments), advisory analysis metadata and the action
// hints for the caller's role.
func (u *TaskUsecase) buildView(ctx context.Context, caller authz.Caller, task *entities.Task) (*entities.TaskView, error) {
	paymentStatus := entities.PaymentStatusUnpaid
	latest, err := u.paymentRepo.GetLatestByTaskID(ctx, task.ID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if latest != nil {
		paymentStatus = string(latest.Status)
	}

	view := &entities.TaskView{
		Task:           task,
		PaymentStatus:  paymentStatus,
		AllowedActions: allowedActions(caller, task.Status, paymentStatus),
	}

	analysis, err := u.analysisRepo.GetByTaskID(ctx, task.ID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if analysis != nil {
		view.Analysis = analysis.Metadata()
		view.PriorityScore = analysis.PriorityScore
	}

	return view, nil
}

func allowedActions(caller authz.Caller, status entities.TaskStatus, paymentStatus string) []string {
	actions := []string{}
	if caller.IsAdmin() {
		if status == entities.TaskStatusSubmitted {
			actions = append(actions, entities.ActionAccept, entities.ActionCounter, entities.ActionReject)
		}
		if status == entities.TaskStatusAccepted || status == entities.TaskStatusInProgress {
			actions = append(actions, entities.ActionComplete)
		}
		return actions
	}
	if paymentStatus == entities.PaymentStatusUnpaid || paymentStatus == string(entities.PaymentStatusFailed) {
		actions = append(actions, entities.ActionPay)
	}
	return actions
}
