package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func seedSearches(t *testing.T, repo Repo, deviceToken string, diseases ...string) {
	t.Helper()
	base := time.Now().UTC().Add(-time.Duration(len(diseases)) * time.Minute)
	for i, disease := range diseases {
		err := repo.Create(context.Background(), Search{
			ID:          uuid.NewString(),
			Crop:        "rice",
			Disease:     disease,
			Confidence:  0.8,
			Language:    "en",
			DeviceToken: deviceToken,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed search: %v", err)
		}
	}
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	seedSearches(t, svc.Repo, "tok", "a", "b", "c", "d", "e")

	page, err := svc.List(context.Background(), "tok", 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 5 || len(page.Searches) != 2 {
		t.Fatalf("page = total %d, len %d", page.Total, len(page.Searches))
	}
	if page.Searches[0].Disease != "e" || page.Searches[1].Disease != "d" {
		t.Errorf("expected newest first, got %s, %s", page.Searches[0].Disease, page.Searches[1].Disease)
	}

	last, err := svc.List(context.Background(), "tok", 2, 4)
	if err != nil {
		t.Fatalf("List last page: %v", err)
	}
	if len(last.Searches) != 1 || last.Searches[0].Disease != "a" {
		t.Errorf("last page wrong: %+v", last.Searches)
	}

	beyond, err := svc.List(context.Background(), "tok", 2, 10)
	if err != nil {
		t.Fatalf("List beyond: %v", err)
	}
	if len(beyond.Searches) != 0 || beyond.Total != 5 {
		t.Errorf("offset beyond total: %+v", beyond)
	}
}

func TestListClampsPageSize(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	page, err := svc.List(context.Background(), "tok", 5000, -3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Limit != maxPageSize || page.Offset != 0 {
		t.Errorf("limit %d offset %d", page.Limit, page.Offset)
	}
}

func TestDiseasesUniqueMostRecentFirst(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	seedSearches(t, svc.Repo, "tok", "rice_blast", "wheat_rust", "rice_blast")

	diseases, err := svc.Diseases(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Diseases: %v", err)
	}
	if len(diseases) != 2 {
		t.Fatalf("got %d diseases, want 2: %v", len(diseases), diseases)
	}
	if diseases[0].Disease != "rice_blast" || diseases[1].Disease != "wheat_rust" {
		t.Errorf("order wrong: %v", diseases)
	}
	if diseases[0].Count != 2 || diseases[1].Count != 1 {
		t.Errorf("counts wrong: %v", diseases)
	}
	if !diseases[0].LastSearchedAt.After(diseases[1].LastSearchedAt) {
		t.Errorf("last searched timestamps not ordered: %v", diseases)
	}
}

func TestDeleteScopedToDevice(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	search := Search{ID: "s1", Crop: "rice", Disease: "rice_blast", DeviceToken: "owner", CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, search); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, "intruder", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-device delete: err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "owner", "s1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.Delete(ctx, "owner", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestClearReturnsCount(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	seedSearches(t, svc.Repo, "tok", "a", "b", "c")
	seedSearches(t, svc.Repo, "other", "x")

	count, err := svc.Clear(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if count != 3 {
		t.Errorf("cleared %d, want 3", count)
	}

	other, err := svc.List(context.Background(), "other", 10, 0)
	if err != nil {
		t.Fatalf("List other: %v", err)
	}
	if other.Total != 1 {
		t.Errorf("other device history disturbed: %+v", other)
	}
}

func TestRecordSearchSkipsAnonymous(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	err := svc.RecordSearch(context.Background(), "rice", "rice_blast", 0.9, "en", "", nil, nil)
	if err != nil {
		t.Fatalf("RecordSearch: %v", err)
	}
	page, err := svc.List(context.Background(), "", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("anonymous search recorded: %+v", page)
	}
}
