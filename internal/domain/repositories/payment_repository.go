package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"taskbridge.backend/internal/domain/entities"
)

// PaymentRepository defines payment data operations. Payments are never
// deleted; only their status flips on verification.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*entities.Payment, error)
	// GetLatestByTaskID returns the most recent payment for the task, or
	// ErrNotFound when the task has none
	GetLatestByTaskID(ctx context.Context, taskID uuid.UUID) (*entities.Payment, error)
	ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*entities.Payment, error)
	MarkVerified(ctx context.Context, providerPaymentID string, transactionID null.String) error
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
	SumSuccessful(ctx context.Context) (float64, error)
}
