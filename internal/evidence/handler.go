package evidence

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lighthouse-backend/internal/shared/server/middleware"
	"lighthouse-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches evidence routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/evidence", h.upload)
	rg.GET("/evidence", h.list)
	rg.GET("/evidence/:id", h.download)
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	ev, err := h.Svc.Upload(c.Request.Context(), sessionID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to store evidence", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(ev))
}

func (h *Handler) list(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	evs, err := h.Svc.List(c.Request.Context(), sessionID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to list evidence", nil)
		return
	}

	resp := make([]EvidenceResponse, 0, len(evs))
	for _, ev := range evs {
		resp = append(resp, toResponse(ev))
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) download(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	ev, rc, err := h.Svc.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "evidence not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to read evidence", nil)
		}
		return
	}
	defer rc.Close()

	c.Header("Content-Type", ev.MimeType)
	c.Header("Content-Disposition", `attachment; filename="`+ev.FileName+`"`)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, rc)
}
