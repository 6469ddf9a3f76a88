package chat_test

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

func postMessage(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestChatMessage(t *testing.T) {
	router := newTestRouter(t)

	resp := postMessage(t, router, `{"message": "How do I treat rice blast?"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}

	var turn struct {
		SessionID string `json:"sessionId"`
		MessageID string `json:"messageId"`
		Reply     string `json:"reply"`
		Language  string `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&turn); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if turn.SessionID == "" || turn.MessageID == "" {
		t.Errorf("missing ids in turn: %+v", turn)
	}
	if turn.Language != "en" {
		t.Errorf("language = %q, want en", turn.Language)
	}
	if !strings.Contains(turn.Reply, "Rice blast") {
		t.Errorf("reply does not mention the disease: %q", turn.Reply)
	}

	// A follow-up in the same session keeps the session id.
	resp = postMessage(t, router, `{"sessionId": "`+turn.SessionID+`", "message": "hello"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("follow-up status = %d", resp.Code)
	}
	var followUp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&followUp); err != nil {
		t.Fatalf("decode follow-up: %v", err)
	}
	if followUp.SessionID != turn.SessionID {
		t.Errorf("session id changed: %q -> %q", turn.SessionID, followUp.SessionID)
	}
}

func TestChatMessageValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty message", `{"message": "   "}`},
		{"missing message", `{}`},
		{"too long", `{"message": "` + strings.Repeat("a", 2001) + `"}`},
		{"malformed json", `{"message": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postMessage(t, router, tc.body)
			if resp.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.Code)
			}
		})
	}
}
