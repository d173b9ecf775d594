package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/volatiletech/null/v8"

	"taskbridge.backend/internal/config"
	"taskbridge.backend/internal/domain/authz"
	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/domain/repositories"
	"taskbridge.backend/pkg/crypto"

	"github.com/google/uuid"
)

// demoTransactionIDs are accepted during manual verification for testing
var demoTransactionIDs = map[string]bool{
	"TEST123": true,
	"DEMO456": true,
	"DEV789":  true,
}

// minTransactionIDLength is the plausibility floor for real UPI references
const minTransactionIDLength = 10

const verificationMessage = "Please scan the QR code or use the UPI ID to make the payment. " +
	"After payment, contact admin with the transaction ID for verification."

// PaymentUsecase handles manual UPI payment business logic
type PaymentUsecase struct {
	paymentRepo repositories.PaymentRepository
	taskRepo    repositories.TaskRepository
	userRepo    repositories.UserRepository
	upi         config.UPIConfig
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(
	paymentRepo repositories.PaymentRepository,
	taskRepo repositories.TaskRepository,
	userRepo repositories.UserRepository,
	upi config.UPIConfig,
) *PaymentUsecase {
	return &PaymentUsecase{
		paymentRepo: paymentRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		upi:         upi,
	}
}

// CreateIntent opens a PENDING payment for the task and returns UPI
// instructions. The amount always mirrors the task's current suggested
// budget; the client never supplies it.
func (u *PaymentUsecase) CreateIntent(ctx context.Context, caller authz.Caller, taskID uuid.UUID) (*entities.PaymentInstructions, error) {
	if _, err := u.userRepo.GetByID(ctx, caller.UserID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.BadRequest("user not found")
		}
		return nil, err
	}

	task, err := u.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.BadRequest("task not found")
		}
		return nil, err
	}

	paymentID, err := newProviderPaymentID()
	if err != nil {
		return nil, err
	}

	payment := &entities.Payment{
		ID:                uuid.New(),
		TaskID:            task.ID,
		ClientID:          caller.UserID,
		Amount:            task.SuggestedBudget,
		Currency:          task.Currency,
		Provider:          "upi",
		ProviderPaymentID: paymentID,
		Status:            entities.PaymentStatusPending,
		CreatedAt:         time.Now(),
	}
	if err := u.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &entities.PaymentInstructions{
		Provider:  "upi",
		PaymentID: paymentID,
		UPIID:     u.upi.ID,
		UPIName:   u.upi.Name,
		UPILink:   u.buildUPILink(task),
		Amount:    task.SuggestedBudget,
		Currency:  task.Currency,
		Message:   verificationMessage,
	}, nil
}

// VerifyManual confirms a payment against an out-of-band UPI transaction id.
// Either an admin or the paying client may verify; the transaction id must be
// a known demo value or plausibly long.
func (u *PaymentUsecase) VerifyManual(ctx context.Context, caller authz.Caller, input *entities.VerifyPaymentInput) (*entities.Payment, error) {
	payment, err := u.paymentRepo.GetByProviderPaymentID(ctx, input.PaymentID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.BadRequest("payment not found")
		}
		return nil, err
	}

	if !caller.IsAdmin() && payment.ClientID != caller.UserID {
		return nil, domainerrors.BadRequest("only admin or task owner can verify payments")
	}

	if !validTransactionID(input.TransactionID) {
		return nil, domainerrors.BadRequest("invalid transaction ID. For testing, use: TEST123, DEMO456, or DEV789")
	}

	if err := u.paymentRepo.MarkVerified(ctx, input.PaymentID, null.StringFrom(input.TransactionID)); err != nil {
		return nil, err
	}

	return u.paymentRepo.GetByProviderPaymentID(ctx, input.PaymentID)
}

// ListForTask returns a task's payment history, newest first. Visible to the
// task owner and admins.
func (u *PaymentUsecase) ListForTask(ctx context.Context, caller authz.Caller, taskID uuid.UUID) ([]*entities.Payment, error) {
	task, err := u.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(caller, authz.CapOwnerOrAdmin, task.ClientID); err != nil {
		return nil, err
	}
	return u.paymentRepo.ListByTaskID(ctx, taskID)
}

func (u *PaymentUsecase) buildUPILink(task *entities.Task) string {
	note := fmt.Sprintf("Payment for Task: %s", task.Title)
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%v&cu=INR&tn=%s",
		u.upi.ID, url.QueryEscape(u.upi.Name), task.SuggestedBudget, url.QueryEscape(note))
}

func validTransactionID(transactionID string) bool {
	return demoTransactionIDs[transactionID] || len(transactionID) >= minTransactionIDLength
}

// newProviderPaymentID mints an opaque payment reference shown to the payer
func newProviderPaymentID() (string, error) {
	suffix, err := crypto.GenerateRandomToken(5)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("pay_%d_%s", time.Now().UnixMilli(), suffix), nil
}
