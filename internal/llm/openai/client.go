package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"lighthouse-backend/internal/llm"
)

const defaultModel = "gpt-4o-mini"

// Client implements llm.Client using OpenAI chat completions. Document
// review uses the vision content-part API, which accepts images only; PDF
// uploads must go through the Gemini provider.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Chat answers a user message with optional strategy context.
func (c *Client) Chat(ctx context.Context, message string, strategy json.RawMessage) (string, error) {
	return c.complete(ctx, llm.ChatSystemPrompt(strategy), message, false)
}

// DraftField writes the text for one evidence field.
func (c *Client) DraftField(ctx context.Context, input llm.DraftInput) (string, error) {
	text, err := c.complete(ctx, "", llm.DraftFieldPrompt(input), false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ValidateDocument reviews a passport image.
func (c *Client) ValidateDocument(ctx context.Context, data []byte, mimeType string) (llm.Validation, error) {
	if mimeType == "application/pdf" {
		return llm.Validation{}, fmt.Errorf("openai provider cannot review PDFs; use an image upload or the gemini provider")
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: llm.ValidationPrompt(time.Now())},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return llm.Validation{}, fmt.Errorf("openai validation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Validation{}, fmt.Errorf("openai response missing choices")
	}

	raw, ok := llm.ExtractJSONObject(resp.Choices[0].Message.Content)
	if !ok {
		return llm.Validation{}, fmt.Errorf("openai validation response is not JSON")
	}
	var v llm.Validation
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return llm.Validation{}, fmt.Errorf("openai validation parse: %w", err)
	}
	return v, nil
}

// GenerateProfile produces a full strategy document with empty values.
func (c *Client) GenerateProfile(ctx context.Context) (json.RawMessage, error) {
	text, err := c.complete(ctx, "", llm.ProfilePrompt(), true)
	if err != nil {
		return nil, err
	}
	cleaned := llm.StripFences(text)
	if !json.Valid([]byte(cleaned)) {
		return nil, fmt.Errorf("invalid JSON from OpenAI")
	}
	return json.RawMessage(cleaned), nil
}

func (c *Client) complete(ctx context.Context, system, user string, jsonOnly bool) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	})

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if jsonOnly {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	return text, nil
}

var _ llm.Client = (*Client)(nil)
