package devices_test

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

func TestRegisterDevice(t *testing.T) {
	router := newTestRouter(t)

	payload := []byte(`{"deviceToken": "tok-1", "latitude": 17.4, "longitude": 78.5, "language": "te"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/register-device", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var device struct {
		DeviceID             string `json:"deviceId"`
		Language             string `json:"language"`
		NotificationsEnabled bool   `json:"notificationsEnabled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&device); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if device.DeviceID == "" {
		t.Fatal("missing deviceId")
	}
	if device.Language != "te" {
		t.Errorf("language = %q", device.Language)
	}
	if !device.NotificationsEnabled {
		t.Error("notifications should default to enabled")
	}
}

func TestRegisterDeviceTokenFromHeader(t *testing.T) {
	router := newTestRouter(t)

	payload := []byte(`{"latitude": 17.4, "longitude": 78.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/register-device", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-Token", "header-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRegisterDeviceValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name    string
		payload string
	}{
		{"missing token", `{"latitude": 17.4, "longitude": 78.5}`},
		{"missing coords", `{"deviceToken": "tok"}`},
		{"out of range", `{"deviceToken": "tok", "latitude": 95, "longitude": 78.5}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/register-device", bytes.NewReader([]byte(tc.payload)))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, resp.Code)
		}
	}
}
