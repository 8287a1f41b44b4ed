package assistant

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lighthouse-backend/internal/llm"
	"lighthouse-backend/internal/shared/metrics"
	"lighthouse-backend/internal/shared/server/respond"
	"lighthouse-backend/internal/shared/telemetry"
)

// Handler wires the assistant endpoints to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches assistant routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assistant/chat", h.chat)
	rg.POST("/assistant/draft-field", h.draftField)
	rg.POST("/assistant/validate-passport", h.validatePassport)
	rg.POST("/assistant/generate-profile", h.generateProfile)
}

type chatRequest struct {
	Message  string          `json:"message"`
	Strategy json.RawMessage `json:"strategy,omitempty"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	metrics.IncAssistantStarted("chat")
	reply, err := h.Svc.Chat(c.Request.Context(), req.Message, req.Strategy)
	if err != nil {
		h.serviceError(c, "chat", err, "Failed to get response")
		return
	}
	metrics.IncAssistantCompleted("chat")

	respond.OK(c, gin.H{"message": reply})
}

type draftFieldRequest struct {
	FieldLabel    string `json:"fieldLabel"`
	InstanceTitle string `json:"instanceTitle"`
	CriterionName string `json:"criterionName"`
	KeyPoints     string `json:"keyPoints"`
	Metrics       string `json:"metrics"`
	UserWords     string `json:"userWords"`
}

func (h *Handler) draftField(c *gin.Context) {
	var req draftFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	metrics.IncAssistantStarted("draft_field")
	text, err := h.Svc.DraftField(c.Request.Context(), llm.DraftInput{
		FieldLabel:    req.FieldLabel,
		InstanceTitle: req.InstanceTitle,
		CriterionName: req.CriterionName,
		KeyPoints:     req.KeyPoints,
		Metrics:       req.Metrics,
		UserWords:     req.UserWords,
	})
	if err != nil {
		h.serviceError(c, "draft_field", err, "Failed to generate text")
		return
	}
	metrics.IncAssistantCompleted("draft_field")

	respond.OK(c, gin.H{"generated": text})
}

func (h *Handler) validatePassport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxDocumentBytes+1)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.JSON(c, http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.JSON(c, http.StatusBadRequest, gin.H{"error": "unable to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.JSON(c, http.StatusBadRequest, gin.H{"error": "unable to read file"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	metrics.IncAssistantStarted("validate_passport")
	verdict, rejected, err := h.Svc.ValidatePassport(c.Request.Context(), data, mimeType)
	if err != nil {
		metrics.IncAssistantFailed("validate_passport")
		telemetry.Error("assistant.validate.failed", map[string]any{
			"err":        err.Error(),
			"mime_type":  mimeType,
			"size_bytes": len(data),
			"request_id": c.GetString("requestId"),
		})
		respond.JSON(c, http.StatusInternalServerError, llm.Validation{
			IsValid:  false,
			Issues:   []string{"Validation system error"},
			Feedback: "An error occurred while validating your passport. Please try again or contact support if the issue persists.",
			Severity: llm.SeverityError,
		})
		return
	}
	if rejected {
		respond.JSON(c, http.StatusBadRequest, verdict)
		return
	}
	metrics.IncAssistantCompleted("validate_passport")

	respond.OK(c, verdict)
}

func (h *Handler) generateProfile(c *gin.Context) {
	metrics.IncAssistantStarted("generate_profile")
	doc, err := h.Svc.GenerateProfile(c.Request.Context())
	if err != nil {
		metrics.IncAssistantFailed("generate_profile")
		telemetry.Error("assistant.generate.failed", map[string]any{
			"err":        err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "upstream_error", "Failed to generate profile", nil)
		return
	}
	metrics.IncAssistantCompleted("generate_profile")

	respond.OK(c, doc)
}

func (h *Handler) serviceError(c *gin.Context, op string, err error, message string) {
	if errors.Is(err, ErrInvalidInput) {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	metrics.IncAssistantFailed(op)
	telemetry.Error("assistant."+op+".failed", map[string]any{
		"err":        err.Error(),
		"request_id": c.GetString("requestId"),
	})
	respond.Error(c, http.StatusInternalServerError, "upstream_error", message, nil)
}
