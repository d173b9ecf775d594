package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/pkg/logger"
)

func init() {
	logger.Init("development")
}

// In-memory repository stubs backing real usecases in handler tests.

type userRepoStub struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entities.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{items: map[uuid.UUID]*entities.User{}}
}

func (s *userRepoStub) Create(_ context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[user.ID] = user
	return nil
}

func (s *userRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return item, nil
}

func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Email == email {
			return item, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *userRepoStub) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	item.PasswordHash = passwordHash
	return nil
}

func (s *userRepoStub) UpdateRole(_ context.Context, id uuid.UUID, role entities.UserRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	item.Role = role
	return nil
}

func (s *userRepoStub) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

type tokenRepoStub struct {
	mu    sync.Mutex
	items map[string]*entities.RefreshToken
}

func newTokenRepoStub() *tokenRepoStub {
	return &tokenRepoStub{items: map[string]*entities.RefreshToken{}}
}

func (s *tokenRepoStub) Create(_ context.Context, token *entities.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[token.Token] = token
	return nil
}

func (s *tokenRepoStub) GetByToken(_ context.Context, token string) (*entities.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[token]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return item, nil
}

func (s *tokenRepoStub) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[token]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(s.items, token)
	return nil
}

func (s *tokenRepoStub) DeleteForUser(_ context.Context, userID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[token]
	if !ok || item.UserID != userID {
		return nil
	}
	delete(s.items, token)
	return nil
}

func (s *tokenRepoStub) DeleteAllForUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, item := range s.items {
		if item.UserID == userID {
			delete(s.items, token)
		}
	}
	return nil
}

func (s *tokenRepoStub) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	now := time.Now()
	for token, item := range s.items {
		if item.ExpiresAt.Before(now) {
			delete(s.items, token)
			purged++
		}
	}
	return purged, nil
}

func (s *tokenRepoStub) CountForUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, item := range s.items {
		if item.UserID == userID {
			n++
		}
	}
	return n, nil
}

type taskRepoStub struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entities.Task
}

func newTaskRepoStub() *taskRepoStub {
	return &taskRepoStub{items: map[uuid.UUID]*entities.Task{}}
}

func (s *taskRepoStub) Create(_ context.Context, task *entities.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[task.ID] = task
	return nil
}

func (s *taskRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return item, nil
}

func (s *taskRepoStub) List(_ context.Context) ([]*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.Task, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *taskRepoStub) ListByClient(_ context.Context, clientID uuid.UUID) ([]*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.Task, 0)
	for _, item := range s.items {
		if item.ClientID == clientID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *taskRepoStub) UpdateStatus(_ context.Context, id uuid.UUID, status entities.TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	item.Status = status
	return nil
}

func (s *taskRepoStub) UpdateBudgetAndStatus(_ context.Context, id uuid.UUID, budget float64, status entities.TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	item.SuggestedBudget = budget
	item.Status = status
	return nil
}

func (s *taskRepoStub) CountByClient(_ context.Context, clientID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, item := range s.items {
		if item.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (s *taskRepoStub) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

type paymentRepoStub struct {
	mu    sync.Mutex
	items []*entities.Payment
}

func newPaymentRepoStub() *paymentRepoStub {
	return &paymentRepoStub{}
}

func (s *paymentRepoStub) Create(_ context.Context, payment *entities.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, payment)
	return nil
}

func (s *paymentRepoStub) GetByProviderPaymentID(_ context.Context, providerPaymentID string) (*entities.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ProviderPaymentID == providerPaymentID {
			return item, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *paymentRepoStub) GetLatestByTaskID(_ context.Context, taskID uuid.UUID) (*entities.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *entities.Payment
	for _, item := range s.items {
		if item.TaskID != taskID {
			continue
		}
		if latest == nil || item.CreatedAt.After(latest.CreatedAt) {
			latest = item
		}
	}
	if latest == nil {
		return nil, domainerrors.ErrNotFound
	}
	return latest, nil
}

func (s *paymentRepoStub) ListByTaskID(_ context.Context, taskID uuid.UUID) ([]*entities.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.Payment, 0)
	for _, item := range s.items {
		if item.TaskID == taskID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *paymentRepoStub) MarkVerified(_ context.Context, providerPaymentID string, transactionID null.String) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ProviderPaymentID == providerPaymentID {
			item.Status = entities.PaymentStatusSuccess
			item.TransactionID = transactionID
			item.VerifiedAt = null.TimeFrom(time.Now())
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (s *paymentRepoStub) CountByClient(_ context.Context, clientID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, item := range s.items {
		if item.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (s *paymentRepoStub) SumSuccessful(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, item := range s.items {
		if item.Status == entities.PaymentStatusSuccess {
			sum += item.Amount
		}
	}
	return sum, nil
}

type fileRepoStub struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entities.TaskFile
}

func newFileRepoStub() *fileRepoStub {
	return &fileRepoStub{items: map[uuid.UUID]*entities.TaskFile{}}
}

func (s *fileRepoStub) Create(_ context.Context, file *entities.TaskFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[file.ID] = file
	return nil
}

func (s *fileRepoStub) GetByID(_ context.Context, taskID, fileID uuid.UUID) (*entities.TaskFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[fileID]
	if !ok || item.TaskID != taskID {
		return nil, domainerrors.ErrNotFound
	}
	return item, nil
}

func (s *fileRepoStub) GetByKey(_ context.Context, fileKey string) (*entities.TaskFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.FileKey == fileKey {
			return item, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *fileRepoStub) ListByTaskID(_ context.Context, taskID uuid.UUID) ([]*entities.TaskFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.TaskFile, 0)
	for _, item := range s.items {
		if item.TaskID == taskID {
			meta := *item
			meta.Data = nil
			out = append(out, &meta)
		}
	}
	return out, nil
}

type chatRepoStub struct {
	mu    sync.Mutex
	items []*entities.ChatMessage
}

func newChatRepoStub() *chatRepoStub {
	return &chatRepoStub{}
}

func (s *chatRepoStub) Create(_ context.Context, message *entities.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, message)
	return nil
}

func (s *chatRepoStub) ListByTaskID(_ context.Context, taskID uuid.UUID) ([]*entities.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.ChatMessage, 0)
	for _, item := range s.items {
		if item.TaskID == taskID {
			out = append(out, item)
		}
	}
	return out, nil
}

type analysisRepoStub struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entities.TaskAnalysis
}

func newAnalysisRepoStub() *analysisRepoStub {
	return &analysisRepoStub{items: map[uuid.UUID]*entities.TaskAnalysis{}}
}

func (s *analysisRepoStub) Create(_ context.Context, analysis *entities.TaskAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[analysis.TaskID] = analysis
	return nil
}

func (s *analysisRepoStub) GetByTaskID(_ context.Context, taskID uuid.UUID) (*entities.TaskAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[taskID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return item, nil
}

// disabledAnalyzer never runs; task creation must not depend on analysis.
type disabledAnalyzer struct{}

func (disabledAnalyzer) Enabled() bool { return false }

func (disabledAnalyzer) AnalyzeTask(context.Context, uuid.UUID, string, string) (*entities.TaskAnalysis, error) {
	return nil, nil
}
