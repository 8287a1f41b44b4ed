package llm

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStripFences(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	if got := StripFences(in); got != `{"a": 1}` {
		t.Fatalf("unexpected output %q", got)
	}
	if got := StripFences("plain text"); got != "plain text" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestExtractJSONObject(t *testing.T) {
	in := "Sure! Here is the profile:\n```json\n{\"applicant_name\": \"X\"}\n```\nLet me know."
	got, ok := ExtractJSONObject(in)
	if !ok {
		t.Fatalf("expected a JSON object")
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("extracted object not valid: %v", err)
	}

	if _, ok := ExtractJSONObject("no object here"); ok {
		t.Fatalf("expected no object")
	}
	if _, ok := ExtractJSONObject("{broken"); ok {
		t.Fatalf("expected invalid object rejected")
	}
}

func TestChatSystemPromptEmbedsStrategy(t *testing.T) {
	doc := json.RawMessage(`{"applicant_name":"Sarah Chen"}`)
	prompt := ChatSystemPrompt(doc)
	if !strings.Contains(prompt, "Sarah Chen") {
		t.Fatalf("expected strategy embedded in prompt")
	}
}

func TestValidationPromptIncludesDate(t *testing.T) {
	today := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	prompt := ValidationPrompt(today)
	if !strings.Contains(prompt, "2026-03-14") {
		t.Fatalf("expected today's date in prompt")
	}
}
