package remedies_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/bootstrap"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:             "0",
		Env:              "dev",
		ObjectStoreType:  "local",
		LocalStoreDir:    t.TempDir(),
		ClassifierMode:   "mock",
		AlertRadiusKm:    10,
		AlertDedupeHours: 6,
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func TestScanTreatment(t *testing.T) {
	router := newTestRouter(t)

	body := `{"disease": "rice_blast", "itemLabel": "Tricyclazole 75 WP", "language": "en"}`
	req := httptest.NewRequest(http.MethodPost, "/api/scan-treatment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var verdict struct {
		Disease  string `json:"disease"`
		WillCure bool   `json:"willCure"`
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !verdict.WillCure {
		t.Errorf("willCure = false for a listed treatment: %+v", verdict)
	}
	if verdict.Feedback == "" {
		t.Error("feedback is empty")
	}
}

func TestScanTreatmentValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing disease", `{"itemLabel": "neem oil"}`},
		{"missing label", `{"disease": "rice_blast"}`},
		{"malformed json", `{"disease": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/scan-treatment", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.Code)
			}
		})
	}
}

func TestRemediesList(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/remedies?disease=rice_blast&language=hi", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var got struct {
		Disease  string   `json:"disease"`
		Language string   `json:"language"`
		Remedies []string `json:"remedies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Language != "hi" {
		t.Errorf("language = %q, want hi", got.Language)
	}
	if len(got.Remedies) == 0 {
		t.Error("remedies list is empty")
	}
}

func TestSuggestedTreatmentsFallback(t *testing.T) {
	// An unreachable Overpass mirror should still yield fallback urls.
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/suggested-treatments?lat=17.4&lng=78.5&disease=rice_blast", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var got struct {
		Stores       []json.RawMessage `json:"stores"`
		FallbackURLs []string          `json:"fallbackUrls"`
		Remedies     []string          `json:"remedies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Stores == nil || len(got.Stores) != 0 {
		t.Errorf("stores = %v, want empty list", got.Stores)
	}
	if len(got.FallbackURLs) == 0 {
		t.Error("fallbackUrls is empty")
	}
	if len(got.Remedies) == 0 {
		t.Error("remedies is empty")
	}
}

func TestSuggestedTreatmentsValidation(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/suggested-treatments?lat=abc", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}
