package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"lighthouse-backend/internal/llm"
	"lighthouse-backend/internal/shared/metrics"
	"lighthouse-backend/internal/shared/telemetry"
	"lighthouse-backend/internal/strategy"
)

// MaxDocumentBytes is the size ceiling for passport uploads.
const MaxDocumentBytes = 10 << 20 // 10MiB

var acceptedDocumentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
}

// Service brokers all LLM-backed features. It owns the pre-flight checks
// that must reject bad input before the external service is contacted.
type Service struct {
	LLM  llm.Client
	Repo strategy.Repo
}

// Chat answers a user message, optionally grounded in the active strategy.
func (s *Service) Chat(ctx context.Context, message string, strategyDoc json.RawMessage) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	start := time.Now()
	reply, err := s.LLM.Chat(ctx, message, strategyDoc)
	metrics.ObserveLLMDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return reply, nil
}

// DraftField writes the text for one evidence field. KeyPoints must be
// non-empty; the call never reaches the LLM without them.
func (s *Service) DraftField(ctx context.Context, input llm.DraftInput) (string, error) {
	if strings.TrimSpace(input.KeyPoints) == "" {
		return "", fmt.Errorf("%w: keyPoints is required", ErrInvalidInput)
	}

	start := time.Now()
	text, err := s.LLM.DraftField(ctx, input)
	metrics.ObserveLLMDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return text, nil
}

// ValidatePassport reviews a passport upload. Type, size, and PDF
// readability are checked first; rejections return (validation, true, nil)
// without contacting the LLM.
func (s *Service) ValidatePassport(ctx context.Context, data []byte, mimeType string) (llm.Validation, bool, error) {
	if rejection, rejected := preflight(data, mimeType); rejected {
		metrics.IncValidationRejected()
		return rejection, true, nil
	}

	start := time.Now()
	v, err := s.LLM.ValidateDocument(ctx, data, normalizeMimeType(mimeType))
	metrics.ObserveLLMDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return llm.Validation{}, false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return v, false, nil
}

func preflight(data []byte, mimeType string) (llm.Validation, bool) {
	if _, ok := acceptedDocumentTypes[mimeType]; !ok {
		return llm.Validation{
			IsValid:  false,
			Issues:   []string{fmt.Sprintf("File type %s not accepted", mimeType)},
			Feedback: "Please upload a PDF, JPG, or PNG file of your passport bio page.",
			Severity: llm.SeverityError,
		}, true
	}
	if len(data) > MaxDocumentBytes {
		return llm.Validation{
			IsValid:  false,
			Issues:   []string{"File size exceeds 10MB limit"},
			Feedback: "Please compress your file or rescan at a lower resolution (300 DPI recommended).",
			Severity: llm.SeverityError,
		}, true
	}
	if mimeType == "application/pdf" {
		if err := checkPDFReadable(data); err != nil {
			return llm.Validation{
				IsValid:  false,
				Issues:   []string{"PDF could not be read"},
				Feedback: "The PDF appears to be corrupted or empty. Please re-export or rescan the document.",
				Severity: llm.SeverityError,
			}, true
		}
	}
	return llm.Validation{}, false
}

func checkPDFReadable(data []byte) error {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return err
	}
	if pdfReader.NumPage() < 1 {
		return fmt.Errorf("pdf has no pages")
	}
	return nil
}

func normalizeMimeType(mimeType string) string {
	switch mimeType {
	case "application/pdf", "image/png":
		return mimeType
	default:
		return "image/jpeg"
	}
}

// GenerateProfile asks the LLM for a complete strategy document, validates
// its shape, appends a uniqueness suffix to the profile type, persists it,
// and returns it. The suffix guarantees no collision with profiles generated
// earlier in the session even when the generator repeats a slug.
func (s *Service) GenerateProfile(ctx context.Context) (*strategy.CaseStrategy, error) {
	start := time.Now()
	raw, err := s.LLM.GenerateProfile(ctx)
	metrics.ObserveLLMDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var doc strategy.CaseStrategy
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: profile parse: %v", ErrUpstream, err)
	}
	if err := checkGeneratedProfile(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	doc.ProfileType = doc.ProfileType + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)

	if err := s.Repo.Save(ctx, doc.ProfileType, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", strategy.ErrPersistence, err)
	}

	telemetry.Info("assistant.profile.generated", map[string]any{
		"profile_type": doc.ProfileType,
		"criteria":     len(doc.Criteria),
	})
	return &doc, nil
}

func checkGeneratedProfile(doc *strategy.CaseStrategy) error {
	if strings.TrimSpace(doc.ApplicantName) == "" || strings.TrimSpace(doc.ProfileType) == "" {
		return fmt.Errorf("generated profile missing applicant_name or profile_type")
	}
	if n := len(doc.Criteria); n < 3 || n > 8 {
		return fmt.Errorf("generated profile has %d criteria, want 3-8", n)
	}
	for _, c := range doc.Criteria {
		if n := len(c.Instances); n < 1 || n > 20 {
			return fmt.Errorf("criterion %s has %d instances, want 1-20", c.ID, n)
		}
		for _, inst := range c.Instances {
			for _, f := range inst.Fields {
				if !f.Type.Valid() {
					return fmt.Errorf("criterion %s has unknown field type %q", c.ID, f.Type)
				}
				if f.Value.Completed() {
					return fmt.Errorf("criterion %s has a populated value; generated profiles must be empty", c.ID)
				}
			}
		}
	}
	return nil
}
