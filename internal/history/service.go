package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service manages per-device search history.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// RecordSearch stores one diagnosis result against the device. Satisfies
// the recorder hook in the detection pipeline.
func (s *Service) RecordSearch(ctx context.Context, crop, disease string, confidence float64, language, deviceToken string, lat, lng *float64) error {
	if deviceToken == "" {
		return nil
	}
	return s.Repo.Create(ctx, Search{
		ID:          uuid.NewString(),
		Crop:        crop,
		Disease:     disease,
		Confidence:  confidence,
		Language:    language,
		DeviceToken: deviceToken,
		Latitude:    lat,
		Longitude:   lng,
		CreatedAt:   time.Now().UTC(),
	})
}

// Page is one page of search history.
type Page struct {
	Searches []Search `json:"searches"`
	Total    int      `json:"total"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
}

// List returns a page of the device's history, newest first.
func (s *Service) List(ctx context.Context, deviceToken string, limit, offset int) (Page, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	searches, total, err := s.Repo.ListByDevice(ctx, deviceToken, limit, offset)
	if err != nil {
		return Page{}, fmt.Errorf("list history: %w", err)
	}
	if searches == nil {
		searches = []Search{}
	}
	return Page{Searches: searches, Total: total, Limit: limit, Offset: offset}, nil
}

// Diseases returns a per-disease summary of the device's history.
func (s *Service) Diseases(ctx context.Context, deviceToken string) ([]DiseaseSummary, error) {
	diseases, err := s.Repo.UniqueDiseases(ctx, deviceToken)
	if err != nil {
		return nil, fmt.Errorf("list diseases: %w", err)
	}
	if diseases == nil {
		diseases = []DiseaseSummary{}
	}
	return diseases, nil
}

// Delete removes one history entry owned by the device.
func (s *Service) Delete(ctx context.Context, deviceToken, id string) error {
	return s.Repo.DeleteByID(ctx, deviceToken, id)
}

// Clear removes the device's entire history.
func (s *Service) Clear(ctx context.Context, deviceToken string) (int, error) {
	return s.Repo.DeleteAll(ctx, deviceToken)
}
