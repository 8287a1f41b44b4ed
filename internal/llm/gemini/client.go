package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"lighthouse-backend/internal/llm"
)

const (
	apiURLFormat = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	defaultModel = "gemini-2.5-flash"
)

// Client implements llm.Client using the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new Gemini client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Chat answers a user message with optional strategy context.
func (c *Client) Chat(ctx context.Context, message string, strategy json.RawMessage) (string, error) {
	prompt := llm.ChatSystemPrompt(strategy) + "\n\nUser: " + message
	return c.generateOnce(ctx, []part{{Text: prompt}})
}

// DraftField writes the text for one evidence field.
func (c *Client) DraftField(ctx context.Context, input llm.DraftInput) (string, error) {
	text, err := c.generateOnce(ctx, []part{{Text: llm.DraftFieldPrompt(input)}})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ValidateDocument sends the passport file inline with the review prompt and
// parses the JSON verdict.
func (c *Client) ValidateDocument(ctx context.Context, data []byte, mimeType string) (llm.Validation, error) {
	parts := []part{
		{Text: llm.ValidationPrompt(time.Now())},
		{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(data),
		}},
	}
	text, err := c.generateOnce(ctx, parts)
	if err != nil {
		return llm.Validation{}, err
	}

	raw, ok := llm.ExtractJSONObject(text)
	if !ok {
		return llm.Validation{}, fmt.Errorf("gemini validation response is not JSON")
	}
	var v llm.Validation
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return llm.Validation{}, fmt.Errorf("gemini validation parse: %w", err)
	}
	return v, nil
}

// GenerateProfile produces a full strategy document with empty values.
func (c *Client) GenerateProfile(ctx context.Context) (json.RawMessage, error) {
	text, err := c.generateOnce(ctx, []part{{Text: llm.ProfilePrompt()}})
	if err != nil {
		return nil, err
	}
	cleaned := llm.StripFences(text)
	if !json.Valid([]byte(cleaned)) {
		return nil, fmt.Errorf("invalid JSON from Gemini")
	}
	return json.RawMessage(cleaned), nil
}

func (c *Client) generateOnce(ctx context.Context, parts []part) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: parts}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(apiURLFormat, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("gemini request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response missing candidates")
	}

	var b strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("gemini response empty content")
	}

	logUsage(c.model, parsed.UsageMetadata)
	return text, nil
}

func logUsage(model string, usage *struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}) {
	if usage == nil {
		log.Printf("llm response model=%s", model)
		return
	}
	log.Printf("llm response model=%s prompt_tokens=%d candidate_tokens=%d total_tokens=%d",
		model, usage.PromptTokenCount, usage.CandidatesTokenCount, usage.TotalTokenCount)
}

var _ llm.Client = (*Client)(nil)
