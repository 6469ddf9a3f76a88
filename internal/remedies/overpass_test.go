package remedies

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const overpassFixture = `{
  "elements": [
    {"lat": 17.40, "lon": 78.50, "tags": {"name": "Sri Venkateswara Agro Agencies", "addr:street": "Main Road", "phone": "+91 9000000001"}},
    {"lat": 17.39, "lon": 78.49, "tags": {"name": "Kisan Seva Kendra"}},
    {"type": "way", "center": {"lat": 17.41, "lon": 78.51}, "tags": {"name": "Farm Needs"}},
    {"lat": 18.00, "lon": 79.00, "tags": {"name": "Far Away Store"}}
  ]
}`

func TestStoreFinderNearbyRanksAndCaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostFormValue("data") == "" {
			t.Error("missing data field in query body")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(overpassFixture))
	}))
	defer srv.Close()

	finder := NewStoreFinder([]string{srv.URL}, 15000)
	stores, err := finder.Nearby(context.Background(), 17.39, 78.49)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(stores) != 3 {
		t.Fatalf("got %d stores, want 3", len(stores))
	}
	if stores[0].Name != "Kisan Seva Kendra" {
		t.Errorf("closest store = %q", stores[0].Name)
	}
	for i := 1; i < len(stores); i++ {
		if stores[i].DistanceKm < stores[i-1].DistanceKm {
			t.Errorf("stores not sorted by distance at index %d", i)
		}
	}
	for _, s := range stores {
		if s.Name == "Far Away Store" {
			t.Error("farthest store should have been trimmed")
		}
	}
}

func TestStoreFinderFallsBackToNextMirror(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements": [{"lat": 10.0, "lon": 76.0, "tags": {"name": "Backup Agro"}}]}`))
	}))
	defer good.Close()

	finder := NewStoreFinder([]string{bad.URL, good.URL}, 15000)
	stores, err := finder.Nearby(context.Background(), 10.0, 76.0)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(stores) != 1 || stores[0].Name != "Backup Agro" {
		t.Fatalf("unexpected stores: %+v", stores)
	}
}

func TestStoreFinderAllMirrorsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	finder := NewStoreFinder([]string{srv.URL}, 15000)
	if _, err := finder.Nearby(context.Background(), 10.0, 76.0); err == nil {
		t.Fatal("expected error when every mirror fails")
	}
}

func TestStoreFinderUnnamedStoreGetsDefaultName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements": [{"lat": 10.0, "lon": 76.0, "tags": {}}]}`))
	}))
	defer srv.Close()

	finder := NewStoreFinder([]string{srv.URL}, 15000)
	stores, err := finder.Nearby(context.Background(), 10.0, 76.0)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if stores[0].Name != "Agro supply store" {
		t.Errorf("name = %q", stores[0].Name)
	}
}
