package detections_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
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

func imageUpload(t *testing.T, fileName, contentType string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("fake-image-bytes-for-testing")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestDetectImageReturnsDiagnosis(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := imageUpload(t, "leaf.jpg", "image/jpeg", map[string]string{
		"latitude":  "17.4",
		"longitude": "78.5",
		"language":  "en",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/detect-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Device-Token", "test-device")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var result struct {
		Crop       string   `json:"crop"`
		Disease    string   `json:"disease"`
		Confidence float64  `json:"confidence"`
		Remedies   []string `json:"remedies"`
		Language   string   `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Crop == "" || result.Disease == "" {
		t.Fatalf("missing diagnosis fields: %+v", result)
	}
	if result.Confidence <= 0 || result.Confidence > 1 {
		t.Errorf("confidence out of range: %v", result.Confidence)
	}
	if len(result.Remedies) == 0 {
		t.Error("expected remedies in response")
	}
	if result.Language != "en" {
		t.Errorf("language = %q", result.Language)
	}
}

func TestDetectImageIsDeterministicPerImage(t *testing.T) {
	router := newTestRouter(t)

	run := func() string {
		body, contentType := imageUpload(t, "leaf.jpg", "image/jpeg", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/detect-image", body)
		req.Header.Set("Content-Type", contentType)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d", resp.Code)
		}
		var result struct {
			Disease string `json:"disease"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return result.Disease
	}

	first := run()
	for i := 0; i < 3; i++ {
		if got := run(); got != first {
			t.Fatalf("same image produced different diagnosis: %q vs %q", first, got)
		}
	}
}

func TestDetectImageRejectsWrongContentType(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := imageUpload(t, "notes.pdf", "application/pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/detect-image", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestDetectImageRequiresFile(t *testing.T) {
	router := newTestRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("language", "en")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/detect-image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestDetectImageRejectsHalfCoordinates(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := imageUpload(t, "leaf.png", "image/png", map[string]string{
		"latitude": "17.4",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/detect-image", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestNearbyAlertsValidation(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nearby-alerts?lat=17.4", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing lng: status = %d, want 400", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/nearby-alerts?lat=95&lng=78.5", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("out of range lat: status = %d, want 400", resp.Code)
	}
}

func TestNearbyAlertsEmpty(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nearby-alerts?lat=17.4&lng=78.5", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var body struct {
		Alerts []any `json:"alerts"`
		Count  int   `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 0 {
		t.Errorf("count = %d, want 0", body.Count)
	}
}
