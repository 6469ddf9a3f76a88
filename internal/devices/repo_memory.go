package devices

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo used when no database
// is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	byToken map[string]Device
	alerts  []SentAlert
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byToken: make(map[string]Device)}
}

// UpsertByToken creates or refreshes a device registration.
func (r *MemoryRepo) UpsertByToken(ctx context.Context, device Device) (Device, error) {
	if err := ctx.Err(); err != nil {
		return Device{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.byToken[device.DeviceToken]
	if ok {
		existing.Latitude = device.Latitude
		existing.Longitude = device.Longitude
		existing.NotificationsEnabled = device.NotificationsEnabled
		existing.Language = device.Language
		existing.UpdatedAt = now
		r.byToken[device.DeviceToken] = existing
		return existing, nil
	}

	device.ID = uuid.NewString()
	device.CreatedAt = now
	device.UpdatedAt = now
	r.byToken[device.DeviceToken] = device
	return device, nil
}

// GetByToken returns a device by its token.
func (r *MemoryRepo) GetByToken(ctx context.Context, deviceToken string) (Device, error) {
	if err := ctx.Err(); err != nil {
		return Device{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	device, ok := r.byToken[deviceToken]
	if !ok {
		return Device{}, ErrNotFound
	}
	return device, nil
}

// ListInBox returns devices inside the bounding box.
func (r *MemoryRepo) ListInBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Device
	for _, d := range r.byToken {
		if d.Latitude < minLat || d.Latitude > maxLat || d.Longitude < minLng || d.Longitude > maxLng {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// WasAlertedSince reports whether an alert for the disease was already sent.
func (r *MemoryRepo) WasAlertedSince(ctx context.Context, deviceID, disease string, since time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.alerts {
		if a.DeviceID == deviceID && a.Disease == disease && !a.SentAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// RecordAlert stores one delivered alert.
func (r *MemoryRepo) RecordAlert(ctx context.Context, alert SentAlert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return nil
}
