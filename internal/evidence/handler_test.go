package evidence_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lighthouse-backend/internal/bootstrap"
	"lighthouse-backend/internal/shared/config"
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

func uploadFile(t *testing.T, router *gin.Engine, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evidence", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestEvidenceUploadAndDownload(t *testing.T) {
	router := buildApp(t)

	content := []byte("award certificate bytes")
	resp := uploadFile(t, router, "award.pdf", content)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		EvidenceID string `json:"evidenceId"`
		FileName   string `json:"fileName"`
		SizeBytes  int64  `json:"sizeBytes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.EvidenceID == "" {
		t.Fatalf("expected evidenceId")
	}
	if created.FileName != "award.pdf" {
		t.Fatalf("unexpected fileName %q", created.FileName)
	}
	if created.SizeBytes != int64(len(content)) {
		t.Fatalf("expected size %d, got %d", len(content), created.SizeBytes)
	}

	// Download it back.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/evidence/"+created.EvidenceID, nil)
	addGuestHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", respGet.Code)
	}
	got, err := io.ReadAll(respGet.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("downloaded bytes differ")
	}
}

func TestEvidenceListNewestFirst(t *testing.T) {
	router := buildApp(t)

	for _, name := range []string{"one.pdf", "two.pdf"} {
		if resp := uploadFile(t, router, name, []byte(name)); resp.Code != http.StatusCreated {
			t.Fatalf("upload %s: %d", name, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evidence", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var items []struct {
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestEvidenceUnknownIDIs404(t *testing.T) {
	router := buildApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evidence/nope", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestEvidenceUploadRequiresFile(t *testing.T) {
	router := buildApp(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evidence", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
