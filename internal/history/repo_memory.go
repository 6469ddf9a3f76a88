package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo used when no database
// is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Search // deviceToken -> searches, append order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Search)}
}

// Create stores one search.
func (r *MemoryRepo) Create(ctx context.Context, search Search) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[search.DeviceToken] = append(r.data[search.DeviceToken], search)
	return nil
}

// ListByDevice returns a page of searches, newest first.
func (r *MemoryRepo) ListByDevice(ctx context.Context, deviceToken string, limit, offset int) ([]Search, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := append([]Search(nil), r.data[deviceToken]...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)

	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// UniqueDiseases returns one summary per disease, most recently searched first.
func (r *MemoryRepo) UniqueDiseases(ctx context.Context, deviceToken string) ([]DiseaseSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := append([]Search(nil), r.data[deviceToken]...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	index := make(map[string]int)
	var out []DiseaseSummary
	for _, s := range all {
		if i, ok := index[s.Disease]; ok {
			out[i].Count++
			continue
		}
		index[s.Disease] = len(out)
		out = append(out, DiseaseSummary{
			Disease:        s.Disease,
			Count:          1,
			LastSearchedAt: s.CreatedAt,
		})
	}
	return out, nil
}

// DeleteByID removes one search owned by the device.
func (r *MemoryRepo) DeleteByID(ctx context.Context, deviceToken, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	searches := r.data[deviceToken]
	for i, s := range searches {
		if s.ID == id {
			r.data[deviceToken] = append(searches[:i], searches[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteAll removes every search for the device.
func (r *MemoryRepo) DeleteAll(ctx context.Context, deviceToken string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := len(r.data[deviceToken])
	delete(r.data, deviceToken)
	return count, nil
}
