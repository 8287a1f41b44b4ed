package strategy_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lighthouse-backend/internal/bootstrap"
	"lighthouse-backend/internal/shared/config"
	"lighthouse-backend/internal/strategy"
)

func buildApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		StrategyStore:   "memory",
		LocalStoreDir:   t.TempDir(),
		LLMProvider:     "off",
		Env:             "dev",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(blob)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type strategyResponse struct {
	ProfileID string                 `json:"profileId"`
	Strategy  *strategy.CaseStrategy `json:"strategy"`
	Progress  []struct {
		CriterionID string          `json:"criterionId"`
		Progress    int             `json:"progress"`
		Status      strategy.Status `json:"status"`
	} `json:"progress"`
}

func decodeStrategy(t *testing.T, resp *httptest.ResponseRecorder) strategyResponse {
	t.Helper()
	var out strategyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestStrategyRequiresIdentity(t *testing.T) {
	router := buildApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestHealthAndMetricsWithoutIdentity(t *testing.T) {
	router := buildApp(t)

	for _, path := range []string{"/api/v1/health", "/api/v1/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 without identity header, got %d", path, resp.Code)
		}
	}
}

func TestListProfiles(t *testing.T) {
	router := buildApp(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/profiles", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var profiles []strategy.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 builtin profiles, got %d", len(profiles))
	}
	if profiles[0].ID != "startup-founder" || profiles[1].ID != "research-scientist" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
}

func TestCurrentBeforeSelect(t *testing.T) {
	router := buildApp(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/strategies/current", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestSelectUnknownProfile(t *testing.T) {
	router := buildApp(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/strategies/nope/select", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSelectAndMutateFlow(t *testing.T) {
	router := buildApp(t)

	// Select the startup founder profile.
	resp := doJSON(t, router, http.MethodPost, "/api/v1/strategies/startup-founder/select", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	selected := decodeStrategy(t, resp)
	if selected.ProfileID != "startup-founder" {
		t.Fatalf("unexpected profile id %q", selected.ProfileID)
	}
	if len(selected.Progress) != 4 {
		t.Fatalf("expected 4 progress entries, got %d", len(selected.Progress))
	}
	for _, p := range selected.Progress {
		if p.Progress != 0 || p.Status != strategy.StatusNotStarted {
			t.Fatalf("expected fresh profile at 0%%, got %+v", p)
		}
	}

	criterionID := selected.Strategy.Criteria[0].ID
	instance := selected.Strategy.Criteria[0].Instances[0]
	fieldName := instance.Fields[0].Name

	// Fill one instance field.
	resp = doJSON(t, router, http.MethodPatch,
		"/api/v1/strategies/current/criteria/"+criterionID+"/instances/"+instance.ID,
		map[string]any{"fieldName": fieldName, "value": "filled in"})
	if resp.Code != http.StatusOK {
		t.Fatalf("patch field: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	updated := decodeStrategy(t, resp)
	if got := updated.Strategy.Criterion(criterionID).Instance(instance.ID).Fields[0].Value.Scalar; got != "filled in" {
		t.Fatalf("expected field update, got %q", got)
	}
	if updated.Progress[0].Progress == 0 {
		t.Fatalf("expected progress to move off 0")
	}
	if updated.Progress[0].Status != strategy.StatusInProgress {
		t.Fatalf("expected in-progress, got %q", updated.Progress[0].Status)
	}

	// Update a demographic field.
	resp = doJSON(t, router, http.MethodPatch, "/api/v1/strategies/current/demographics",
		map[string]any{"fieldName": updated.Strategy.DemographicInformation.Fields[0].Name, "value": "new value"})
	if resp.Code != http.StatusOK {
		t.Fatalf("patch demographics: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Add an instance.
	resp = doJSON(t, router, http.MethodPost,
		"/api/v1/strategies/current/criteria/"+criterionID+"/instances",
		map[string]any{"title": "Another one"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("add instance: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	withAdded := decodeStrategy(t, resp)
	instances := withAdded.Strategy.Criterion(criterionID).Instances
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}

	// Delete it again.
	resp = doJSON(t, router, http.MethodDelete,
		"/api/v1/strategies/current/criteria/"+criterionID+"/instances/"+instances[1].ID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete instance: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Criterion progress endpoint agrees with the document.
	resp = doJSON(t, router, http.MethodGet,
		"/api/v1/strategies/current/criteria/"+criterionID+"/progress", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("progress: expected 200, got %d", resp.Code)
	}

	// The mutated state survives a reselect (synchronous persistence).
	resp = doJSON(t, router, http.MethodPost, "/api/v1/strategies/startup-founder/select", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("reselect: expected 200, got %d", resp.Code)
	}
	reselected := decodeStrategy(t, resp)
	if got := reselected.Strategy.Criterion(criterionID).Instance(instance.ID).Fields[0].Value.Scalar; got != "filled in" {
		t.Fatalf("expected persisted field after reselect, got %q", got)
	}
}

func TestMutationsWithoutSelection(t *testing.T) {
	router := buildApp(t)

	resp := doJSON(t, router, http.MethodPatch, "/api/v1/strategies/current/demographics",
		map[string]any{"fieldName": "full_name", "value": "x"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPost,
		"/api/v1/strategies/current/criteria/press/instances",
		map[string]any{"title": "x"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestUnknownCriterionIs404(t *testing.T) {
	router := buildApp(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/strategies/startup-founder/select", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPost,
		"/api/v1/strategies/current/criteria/no-such/instances",
		map[string]any{"title": "x"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodGet,
		"/api/v1/strategies/current/criteria/no-such/progress", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestResetClearsEverything(t *testing.T) {
	router := buildApp(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/strategies/startup-founder/select", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodDelete, "/api/v1/strategies", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/strategies/current", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 after reset, got %d", resp.Code)
	}
}
