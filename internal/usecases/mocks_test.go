package usecases_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"

	"taskbridge.backend/internal/domain/entities"
)

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entities.UserRole) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *entities.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetByToken(ctx context.Context, token string) (*entities.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteForUser(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshTokenRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *entities.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context) ([]*entities.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entities.Task, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TaskStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateBudgetAndStatus(ctx context.Context, id uuid.UUID, budget float64, status entities.TaskStatus) error {
	args := m.Called(ctx, id, budget, status)
	return args.Error(0)
}

func (m *MockTaskRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*entities.Payment, error) {
	args := m.Called(ctx, providerPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetLatestByTaskID(ctx context.Context, taskID uuid.UUID) (*entities.Payment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*entities.Payment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkVerified(ctx context.Context, providerPaymentID string, transactionID null.String) error {
	args := m.Called(ctx, providerPaymentID, transactionID)
	return args.Error(0)
}

func (m *MockPaymentRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) SumSuccessful(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

// Mock TaskFileRepository
type MockTaskFileRepository struct {
	mock.Mock
}

func (m *MockTaskFileRepository) Create(ctx context.Context, file *entities.TaskFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockTaskFileRepository) GetByID(ctx context.Context, taskID, fileID uuid.UUID) (*entities.TaskFile, error) {
	args := m.Called(ctx, taskID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TaskFile), args.Error(1)
}

func (m *MockTaskFileRepository) GetByKey(ctx context.Context, fileKey string) (*entities.TaskFile, error) {
	args := m.Called(ctx, fileKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TaskFile), args.Error(1)
}

func (m *MockTaskFileRepository) ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*entities.TaskFile, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TaskFile), args.Error(1)
}

// Mock ChatMessageRepository
type MockChatMessageRepository struct {
	mock.Mock
}

func (m *MockChatMessageRepository) Create(ctx context.Context, message *entities.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatMessageRepository) ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*entities.ChatMessage, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChatMessage), args.Error(1)
}

// Mock TaskAnalysisRepository
type MockTaskAnalysisRepository struct {
	mock.Mock
}

func (m *MockTaskAnalysisRepository) Create(ctx context.Context, analysis *entities.TaskAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockTaskAnalysisRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) (*entities.TaskAnalysis, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TaskAnalysis), args.Error(1)
}

// Mock TaskAnalyzer
type MockTaskAnalyzer struct {
	mock.Mock
}

func (m *MockTaskAnalyzer) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockTaskAnalyzer) AnalyzeTask(ctx context.Context, taskID uuid.UUID, title, description string) (*entities.TaskAnalysis, error) {
	args := m.Called(ctx, taskID, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TaskAnalysis), args.Error(1)
}

// Mock ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockObjectStorage) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStorage) SignedDownloadURL(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}
