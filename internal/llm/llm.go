package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for the assistant features: conversational
// help, field drafting, document review, and profile generation.
type Client interface {
	// Chat answers a user message, optionally grounded in the full strategy
	// document. Each call is stateless; no history is kept.
	Chat(ctx context.Context, message string, strategy json.RawMessage) (string, error)
	// DraftField writes the text for one evidence field from the user's key
	// points.
	DraftField(ctx context.Context, input DraftInput) (string, error)
	// ValidateDocument reviews a passport bio page (PDF, JPEG, or PNG).
	ValidateDocument(ctx context.Context, data []byte, mimeType string) (Validation, error)
	// GenerateProfile produces a complete strategy document with empty
	// values, as raw JSON.
	GenerateProfile(ctx context.Context) (json.RawMessage, error)
}

// DraftInput captures the inputs for drafting one field's text.
type DraftInput struct {
	FieldLabel    string
	InstanceTitle string
	CriterionName string
	KeyPoints     string
	Metrics       string
	UserWords     string
}

// Validation is the structured outcome of a document review.
type Validation struct {
	IsValid  bool     `json:"isValid"`
	Issues   []string `json:"issues"`
	Feedback string   `json:"feedback"`
	Severity string   `json:"severity"`
}

// Severity values a Validation can carry.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeveritySuccess = "success"
)

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is the stub used when no provider is configured; every
// AI-backed call fails at this boundary.
type PlaceholderClient struct{}

func (PlaceholderClient) Chat(ctx context.Context, message string, strategy json.RawMessage) (string, error) {
	return "", ErrNotImplemented
}

func (PlaceholderClient) DraftField(ctx context.Context, input DraftInput) (string, error) {
	return "", ErrNotImplemented
}

func (PlaceholderClient) ValidateDocument(ctx context.Context, data []byte, mimeType string) (Validation, error) {
	return Validation{}, ErrNotImplemented
}

func (PlaceholderClient) GenerateProfile(ctx context.Context) (json.RawMessage, error) {
	return nil, ErrNotImplemented
}

var _ Client = PlaceholderClient{}
