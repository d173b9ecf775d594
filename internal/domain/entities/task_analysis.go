package entities

import (
	"time"

	"github.com/google/uuid"
)

// TaskAnalysis holds the advisory LLM assessment of a task. Produced by a
// best-effort background job; its absence never blocks any task operation.
type TaskAnalysis struct {
	ID               uuid.UUID `json:"id"`
	TaskID           uuid.UUID `json:"taskId"`
	Category         string    `json:"category"`
	Complexity       string    `json:"complexity"`
	RecommendedPrice float64   `json:"recommendedPrice"`
	PriorityScore    int       `json:"priorityScore"`
	RiskFlags        []string  `json:"riskFlags"`
	CreatedAt        time.Time `json:"createdAt"`
}

// AnalysisMetadata is the projection embedded in task responses
type AnalysisMetadata struct {
	Category         string   `json:"category"`
	Complexity       string   `json:"complexity"`
	RiskFlags        []string `json:"riskFlags"`
	RecommendedPrice float64  `json:"recommendedPrice"`
}

// Metadata returns the response projection of the analysis
func (a *TaskAnalysis) Metadata() *AnalysisMetadata {
	return &AnalysisMetadata{
		Category:         a.Category,
		Complexity:       a.Complexity,
		RiskFlags:        a.RiskFlags,
		RecommendedPrice: a.RecommendedPrice,
	}
}
