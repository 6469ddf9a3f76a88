package history_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/bootstrap"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
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
	return app
}

func TestHistoryRequiresDeviceToken(t *testing.T) {
	app := newTestApp(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/history"},
		{http.MethodGet, "/api/history/diseases"},
		{http.MethodDelete, "/api/history/some-id"},
		{http.MethodDelete, "/api/history"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", route.method, route.path, resp.Code)
		}
	}
}

func TestHistoryListAndClear(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	for _, disease := range []string{"rice_blast", "wheat_rust", "rice_blast"} {
		err := app.HistoryService.RecordSearch(ctx, "rice", disease, 0.8, "en", "tok", nil, nil)
		if err != nil {
			t.Fatalf("RecordSearch: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=2", nil)
	req.Header.Set("X-Device-Token", "tok")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var page struct {
		Searches []struct {
			ID      string `json:"id"`
			Disease string `json:"disease"`
		} `json:"searches"`
		Total int `json:"total"`
		Limit int `json:"limit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 3 || len(page.Searches) != 2 || page.Limit != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}

	// Unique diseases.
	req = httptest.NewRequest(http.MethodGet, "/api/history/diseases", nil)
	req.Header.Set("X-Device-Token", "tok")
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("diseases status = %d", resp.Code)
	}
	var diseases struct {
		Diseases []struct {
			Disease string `json:"disease"`
			Count   int    `json:"count"`
		} `json:"diseases"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&diseases); err != nil {
		t.Fatalf("decode diseases: %v", err)
	}
	if len(diseases.Diseases) != 2 {
		t.Errorf("diseases = %v, want 2 unique", diseases.Diseases)
	}
	if diseases.Diseases[0].Disease != "rice_blast" || diseases.Diseases[0].Count != 2 {
		t.Errorf("unexpected first summary: %+v", diseases.Diseases[0])
	}

	// Delete one entry.
	req = httptest.NewRequest(http.MethodDelete, "/api/history/"+page.Searches[0].ID, nil)
	req.Header.Set("X-Device-Token", "tok")
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete status = %d", resp.Code)
	}

	// Clear the rest.
	req = httptest.NewRequest(http.MethodDelete, "/api/history", nil)
	req.Header.Set("X-Device-Token", "tok")
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("clear status = %d", resp.Code)
	}
	var cleared struct {
		Deleted int `json:"deleted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cleared); err != nil {
		t.Fatalf("decode clear: %v", err)
	}
	if cleared.Deleted != 2 {
		t.Errorf("deleted = %d, want 2", cleared.Deleted)
	}
}

func TestHistoryDeleteUnknownID(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/history/missing", nil)
	req.Header.Set("X-Device-Token", "tok")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}
