package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"taskbridge.backend/internal/config"
	"taskbridge.backend/internal/domain/entities"
)

const prompt = `Analyze the following technical task and return a JSON object with:
- category: string
- complexity: string (Low, Medium, High)
- recommendedPrice: number (in the context of the task)
- priorityScore: number (1-10)
- riskFlags: string[] (potential issues)

Task Title: %s
Task Description: %s

Return ONLY the JSON object.`

// Client calls an OpenAI-compatible chat completions endpoint to assess a
// task. Callers treat every failure as advisory: an assessment either lands
// or it doesn't.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewClient creates an analysis client from configuration
func NewClient(cfg config.AnalysisConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
	}
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type assessment struct {
	Category         string   `json:"category"`
	Complexity       string   `json:"complexity"`
	RecommendedPrice float64  `json:"recommendedPrice"`
	PriorityScore    int      `json:"priorityScore"`
	RiskFlags        []string `json:"riskFlags"`
}

// AnalyzeTask sends the task to the model and maps the JSON answer into a
// TaskAnalysis. Missing answer fields fall back to neutral defaults.
func (c *Client) AnalyzeTask(ctx context.Context, taskID uuid.UUID, title, description string) (*entities.TaskAnalysis, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(prompt, title, description)},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis request failed: status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("empty analysis response")
	}

	var a assessment
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &a); err != nil {
		return nil, fmt.Errorf("failed to parse analysis content: %w", err)
	}

	if a.Category == "" {
		a.Category = "Unknown"
	}
	if a.Complexity == "" {
		a.Complexity = "Medium"
	}
	if a.PriorityScore == 0 {
		a.PriorityScore = 5
	}

	return &entities.TaskAnalysis{
		ID:               uuid.New(),
		TaskID:           taskID,
		Category:         a.Category,
		Complexity:       a.Complexity,
		RecommendedPrice: a.RecommendedPrice,
		PriorityScore:    a.PriorityScore,
		RiskFlags:        a.RiskFlags,
		CreatedAt:        time.Now(),
	}, nil
}
