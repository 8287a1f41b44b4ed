package strategy

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lighthouse-backend/internal/shared/metrics"
	"lighthouse-backend/internal/shared/server/middleware"
	"lighthouse-backend/internal/shared/server/respond"
)

// Handler exposes the strategy store and loader over HTTP.
type Handler struct {
	Sessions *Sessions
	Loader   *Loader
	Repo     Repo
}

// NewHandler constructs a Handler.
func NewHandler(sessions *Sessions, loader *Loader, repo Repo) *Handler {
	return &Handler{Sessions: sessions, Loader: loader, Repo: repo}
}

// RegisterRoutes attaches strategy routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profiles", h.listProfiles)
	rg.POST("/strategies/:profileId/select", h.selectProfile)
	rg.POST("/strategies/:profileId/invalidate", h.invalidate)
	rg.DELETE("/strategies", h.reset)
	rg.GET("/strategies/current", h.current)
	rg.PATCH("/strategies/current/demographics", h.updateDemographic)
	rg.GET("/strategies/current/criteria/:criterionId/progress", h.criterionProgress)
	rg.POST("/strategies/current/criteria/:criterionId/instances", h.addInstance)
	rg.PATCH("/strategies/current/criteria/:criterionId/instances/:instanceId", h.updateInstanceField)
	rg.DELETE("/strategies/current/criteria/:criterionId/instances/:instanceId", h.deleteInstance)
}

type criterionProgress struct {
	CriterionID string `json:"criterionId"`
	Progress    int    `json:"progress"`
	Status      Status `json:"status"`
}

type strategyResponse struct {
	ProfileID string              `json:"profileId"`
	Strategy  *CaseStrategy       `json:"strategy"`
	Progress  []criterionProgress `json:"progress"`
}

func toResponse(profileID string, s *CaseStrategy) strategyResponse {
	progress := make([]criterionProgress, 0, len(s.Criteria))
	for _, c := range s.Criteria {
		p := Progress(c)
		progress = append(progress, criterionProgress{
			CriterionID: c.ID,
			Progress:    p,
			Status:      StatusForProgress(p),
		})
	}
	return strategyResponse{ProfileID: profileID, Strategy: s, Progress: progress}
}

func (h *Handler) listProfiles(c *gin.Context) {
	profiles := BuiltinProfiles()
	builtin := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		builtin[p.ID] = true
	}

	ids, err := h.Repo.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to list profiles", nil)
		return
	}
	for _, id := range ids {
		if builtin[id] {
			continue
		}
		name := id
		if s, err := h.Repo.Get(c.Request.Context(), id); err == nil && s.ApplicantName != "" {
			name = s.ApplicantName
		}
		profiles = append(profiles, Profile{ID: id, Name: name, Custom: true})
	}

	respond.OK(c, profiles)
}

func (h *Handler) selectProfile(c *gin.Context) {
	profileID := c.Param("profileId")

	s, err := h.Loader.Load(c.Request.Context(), profileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "unknown profile", nil)
		case errors.Is(err, ErrPersistence):
			respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to cache strategy", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load strategy", nil)
		}
		return
	}

	h.store(c).SetActive(s, profileID)
	metrics.IncStrategyLoad()
	c.Set("profileId", profileID)
	respond.OK(c, toResponse(profileID, s))
}

func (h *Handler) invalidate(c *gin.Context) {
	profileID := c.Param("profileId")
	if err := h.Loader.Invalidate(c.Request.Context(), profileID); err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to invalidate cached strategy", nil)
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.Sessions.Reset(c.Request.Context()); err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to reset demo data", nil)
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) current(c *gin.Context) {
	s, profileID, ok := h.store(c).Current()
	if !ok {
		respond.Error(c, http.StatusConflict, "no_active_strategy", "select a profile first", nil)
		return
	}
	respond.OK(c, toResponse(profileID, s))
}

type updateFieldRequest struct {
	FieldName string     `json:"fieldName"`
	Value     FieldValue `json:"value"`
}

func (h *Handler) updateDemographic(c *gin.Context) {
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.FieldName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fieldName is required", nil)
		return
	}

	updated, err := h.store(c).UpdateDemographicField(c.Request.Context(), req.FieldName, req.Value)
	if err != nil {
		h.mutationError(c, err)
		return
	}
	metrics.IncStrategyMutation()

	_, profileID, _ := h.store(c).Current()
	respond.OK(c, toResponse(profileID, updated))
}

func (h *Handler) updateInstanceField(c *gin.Context) {
	criterionID := c.Param("criterionId")
	instanceID := c.Param("instanceId")

	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.FieldName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fieldName is required", nil)
		return
	}

	store := h.store(c)
	if !h.resolveInstance(c, store, criterionID, instanceID) {
		return
	}

	updated, err := store.UpdateInstanceField(c.Request.Context(), criterionID, instanceID, req.FieldName, req.Value)
	if err != nil {
		h.mutationError(c, err)
		return
	}
	metrics.IncStrategyMutation()

	_, profileID, _ := store.Current()
	respond.OK(c, toResponse(profileID, updated))
}

type addInstanceRequest struct {
	Title string `json:"title"`
}

func (h *Handler) addInstance(c *gin.Context) {
	criterionID := c.Param("criterionId")

	var req addInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Title == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "title is required", nil)
		return
	}

	store := h.store(c)
	if !h.resolveCriterion(c, store, criterionID) {
		return
	}

	updated, err := store.AddInstance(c.Request.Context(), criterionID, req.Title)
	if err != nil {
		h.mutationError(c, err)
		return
	}
	metrics.IncStrategyMutation()

	_, profileID, _ := store.Current()
	respond.JSON(c, http.StatusCreated, toResponse(profileID, updated))
}

func (h *Handler) deleteInstance(c *gin.Context) {
	criterionID := c.Param("criterionId")
	instanceID := c.Param("instanceId")

	store := h.store(c)
	if !h.resolveCriterion(c, store, criterionID) {
		return
	}

	// Deleting an already-absent instance stays a successful no-op.
	updated, err := store.DeleteInstance(c.Request.Context(), criterionID, instanceID)
	if err != nil {
		h.mutationError(c, err)
		return
	}
	metrics.IncStrategyMutation()

	_, profileID, _ := store.Current()
	respond.OK(c, toResponse(profileID, updated))
}

func (h *Handler) criterionProgress(c *gin.Context) {
	criterionID := c.Param("criterionId")

	s, _, ok := h.store(c).Current()
	if !ok {
		respond.Error(c, http.StatusConflict, "no_active_strategy", "select a profile first", nil)
		return
	}
	criterion := s.Criterion(criterionID)
	if criterion == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "criterion not found", nil)
		return
	}

	p := Progress(criterion)
	respond.OK(c, criterionProgress{
		CriterionID: criterionID,
		Progress:    p,
		Status:      StatusForProgress(p),
	})
}

func (h *Handler) store(c *gin.Context) *Store {
	return h.Sessions.For(middleware.SessionIDFromContext(c))
}

// resolveCriterion answers 409/404 for unresolved paths; the store-level
// contract stays lenient, but the HTTP surface should not be silently lossy.
func (h *Handler) resolveCriterion(c *gin.Context, store *Store, criterionID string) bool {
	s, _, ok := store.Current()
	if !ok {
		respond.Error(c, http.StatusConflict, "no_active_strategy", "select a profile first", nil)
		return false
	}
	if s.Criterion(criterionID) == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "criterion not found", nil)
		return false
	}
	return true
}

func (h *Handler) resolveInstance(c *gin.Context, store *Store, criterionID, instanceID string) bool {
	s, _, ok := store.Current()
	if !ok {
		respond.Error(c, http.StatusConflict, "no_active_strategy", "select a profile first", nil)
		return false
	}
	criterion := s.Criterion(criterionID)
	if criterion == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "criterion not found", nil)
		return false
	}
	if criterion.Instance(instanceID) == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "instance not found", nil)
		return false
	}
	return true
}

func (h *Handler) mutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoActiveStrategy):
		respond.Error(c, http.StatusConflict, "no_active_strategy", "select a profile first", nil)
	case errors.Is(err, ErrNoTemplateInstance):
		respond.Error(c, http.StatusConflict, "no_template_instance", "criterion has no instance to use as a template", nil)
	case errors.Is(err, ErrPersistence):
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to save changes", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "mutation failed", nil)
	}
}
