package detections

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used when no database
// is configured.
type MemoryRepo struct {
	mu     sync.RWMutex
	events []Event
	byID   map[string]int
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]int)}
}

// Create stores a detection event.
func (r *MemoryRepo) Create(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[event.ID] = len(r.events)
	r.events = append(r.events, event)
	return nil
}

// GetByID returns a detection event by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return r.events[idx], nil
}

// ListInBox returns located events inside the box created at or after since.
func (r *MemoryRepo) ListInBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64, since time.Time) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Event
	for _, e := range r.events {
		if !e.HasLocation() || e.CreatedAt.Before(since) {
			continue
		}
		lat, lng := *e.Latitude, *e.Longitude
		if lat < minLat || lat > maxLat || lng < minLng || lng > maxLng {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
