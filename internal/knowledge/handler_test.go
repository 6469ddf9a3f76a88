package knowledge_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/bootstrap"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:                "0",
		Env:                 "dev",
		ObjectStoreType:     "local",
		LocalStoreDir:       t.TempDir(),
		ClassifierMode:      "mock",
		ConfidenceThreshold: 0.5,
		MaxImageSizeMB:      10,
		AlertRadiusKm:       10,
		AlertDedupeHours:    6,
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func TestListCrops(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/crops?language=hi", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var body struct {
		Crops []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"crops"`
		Version int `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Version < 1 || len(body.Crops) == 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
	for _, crop := range body.Crops {
		if crop.ID == "" || crop.Name == "" {
			t.Errorf("crop missing fields: %+v", crop)
		}
	}
}

func TestListSymptomsForCrop(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/crops/rice/symptoms", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var body struct {
		CropID   string `json:"cropId"`
		Symptoms []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"symptoms"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.CropID != "rice" || len(body.Symptoms) == 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestListSymptomsUnknownCrop(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/crops/nonexistent/symptoms", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}

func TestMatchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	payload := []byte(`{"cropId": "rice", "symptomIds": ["brown_spots", "wilting"], "language": "en"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/match", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Matched bool `json:"matched"`
		Score   int  `json:"score"`
		Disease struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"disease"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Matched || body.Disease.ID != "rice_blast" || body.Score != 2 {
		t.Fatalf("unexpected match: %+v", body)
	}
}

func TestMatchEndpointNoMatch(t *testing.T) {
	router := newTestRouter(t)

	payload := []byte(`{"cropId": "tomato", "symptomIds": []}`)
	req := httptest.NewRequest(http.MethodPost, "/api/match", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var body struct {
		Matched bool `json:"matched"`
		Score   int  `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Matched || body.Score != 0 {
		t.Fatalf("expected no match: %+v", body)
	}
}

func TestMatchEndpointUnknownCrop(t *testing.T) {
	router := newTestRouter(t)

	payload := []byte(`{"cropId": "nonexistent_crop", "symptomIds": ["brown_spots"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/match", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}

func TestKnowledgeReloadEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/knowledge/reload", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Reloaded bool `json:"reloaded"`
		Version  int  `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Reloaded || body.Version < 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}
