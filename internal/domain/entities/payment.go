package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PaymentStatus represents payment verification status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// PaymentStatusUnpaid is the derived status for tasks with no payments.
// Not a persisted value.
const PaymentStatusUnpaid = "UNPAID"

// Payment represents one payment attempt tied to a task
type Payment struct {
	ID                uuid.UUID     `json:"id"`
	TaskID            uuid.UUID     `json:"taskId"`
	ClientID          uuid.UUID     `json:"clientId"`
	Amount            float64       `json:"amount"`
	Currency          string        `json:"currency"`
	Provider          string        `json:"provider"`
	ProviderPaymentID string        `json:"providerPaymentId"`
	Status            PaymentStatus `json:"status"`
	TransactionID     null.String   `json:"transactionId,omitempty"`
	VerifiedAt        null.Time     `json:"verifiedAt,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// PaymentInstructions is returned to the payer after intent creation
type PaymentInstructions struct {
	Provider  string  `json:"provider"`
	PaymentID string  `json:"paymentId"`
	UPIID     string  `json:"upiId"`
	UPIName   string  `json:"upiName"`
	UPILink   string  `json:"upiLink"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Message   string  `json:"message"`
}

// CreateIntentInput represents the payment intent request payload
type CreateIntentInput struct {
	TaskID uuid.UUID `json:"taskId" binding:"required"`
}

// VerifyPaymentInput represents the manual verification payload
type VerifyPaymentInput struct {
	PaymentID     string `json:"paymentId" binding:"required"`
	TransactionID string `json:"transactionId" binding:"required"`
}
