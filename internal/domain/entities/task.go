package entities

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusSubmitted  TaskStatus = "SUBMITTED"
	TaskStatusAccepted   TaskStatus = "ACCEPTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusRejected   TaskStatus = "REJECTED"
)

// ValidTaskStatus reports whether s is one of the enumerated statuses
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusSubmitted, TaskStatusAccepted, TaskStatusInProgress,
		TaskStatusCompleted, TaskStatusRejected:
		return true
	}
	return false
}

// Client actions derived for the UI. Advisory hints only, never enforced
// server-side.
const (
	ActionAccept   = "ACCEPT"
	ActionCounter  = "COUNTER"
	ActionReject   = "REJECT"
	ActionComplete = "COMPLETE"
	ActionPay      = "PAY"
)

// Task represents a client-submitted unit of work
type Task struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	SuggestedBudget float64    `json:"suggestedBudget"`
	Currency        string     `json:"currency"`
	Urgency         string     `json:"urgency"`
	TargetDate      time.Time  `json:"targetDate"`
	Status          TaskStatus `json:"status"`
	ClientID        uuid.UUID  `json:"clientId"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Budget      float64    `json:"budget" binding:"required"`
	Currency    string     `json:"currency" binding:"required"`
	Urgency     string     `json:"urgency" binding:"required"`
	TargetDate  *time.Time `json:"targetDate"`
}

// UpdateTaskStatusInput represents the admin status override payload
type UpdateTaskStatusInput struct {
	Status TaskStatus `json:"status" binding:"required"`
}

// CounterOfferInput represents the admin counter-offer payload
type CounterOfferInput struct {
	Amount float64 `json:"amount" binding:"required"`
}

// TaskView is a task enriched with derived presentation fields
type TaskView struct {
	*Task
	PaymentStatus  string            `json:"paymentStatus"`
	AllowedActions []string          `json:"allowedActions"`
	Analysis       *AnalysisMetadata `json:"aiMetadata,omitempty"`
	PriorityScore  int               `json:"priorityScore"`
}
