package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/infrastructure/models"
)

// PaymentRepository implements payment data operations
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment record
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	m := &models.Payment{
		ID:                payment.ID,
		TaskID:            payment.TaskID,
		ClientID:          payment.ClientID,
		Amount:            payment.Amount,
		Currency:          payment.Currency,
		Provider:          payment.Provider,
		ProviderPaymentID: payment.ProviderPaymentID,
		Status:            string(payment.Status),
		TransactionID:     payment.TransactionID.Ptr(),
		VerifiedAt:        payment.VerifiedAt.Ptr(),
		CreatedAt:         payment.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByProviderPaymentID gets a payment by its provider payment id
func (r *PaymentRepository) GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*entities.Payment, error) {
	var m models.Payment
	if err := r.db.WithContext(ctx).Where("provider_payment_id = ?", providerPaymentID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return paymentToEntity(&m), nil
}

// GetLatestByTaskID gets the most recent payment for the task
func (r *PaymentRepository) GetLatestByTaskID(ctx context.Context, taskID uuid.UUID) (*entities.Payment, error) {
	var m models.Payment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return paymentToEntity(&m), nil
}

// ListByTaskID lists all payments for the task, newest first
func (r *PaymentRepository) ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*entities.Payment, error) {
	var paymentModels []models.Payment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}
	payments := make([]*entities.Payment, 0, len(paymentModels))
	for i := range paymentModels {
		payments = append(payments, paymentToEntity(&paymentModels[i]))
	}
	return payments, nil
}

// MarkVerified flips the payment to SUCCESS and records the transaction id
func (r *PaymentRepository) MarkVerified(ctx context.Context, providerPaymentID string, transactionID null.String) error {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("provider_payment_id = ?", providerPaymentID).
		Updates(map[string]interface{}{
			"status":         string(entities.PaymentStatusSuccess),
			"transaction_id": transactionID.Ptr(),
			"verified_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountByClient returns the number of payments made by the client
func (r *PaymentRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}

// SumSuccessful sums the amount of all SUCCESS payments
func (r *PaymentRepository) SumSuccessful(ctx context.Context) (float64, error) {
	var sum *float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ?", string(entities.PaymentStatusSuccess)).
		Select("SUM(amount)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func paymentToEntity(m *models.Payment) *entities.Payment {
	return &entities.Payment{
		ID:                m.ID,
		TaskID:            m.TaskID,
		ClientID:          m.ClientID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Provider:          m.Provider,
		ProviderPaymentID: m.ProviderPaymentID,
		Status:            entities.PaymentStatus(m.Status),
		TransactionID:     null.StringFromPtr(m.TransactionID),
		VerifiedAt:        null.TimeFromPtr(m.VerifiedAt),
		CreatedAt:         m.CreatedAt,
	}
}
