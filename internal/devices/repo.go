package devices

import (
	"context"
	"time"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "device not found" }

// Repo defines persistence operations for devices and alert history.
type Repo interface {
	// UpsertByToken creates the device or refreshes its location and
	// preferences, keyed by the device token. Returns the stored row.
	UpsertByToken(ctx context.Context, device Device) (Device, error)
	GetByToken(ctx context.Context, deviceToken string) (Device, error)
	// ListInBox returns devices inside a lat/lng bounding box.
	ListInBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]Device, error)
	// WasAlertedSince reports whether the device already received an alert
	// for the disease at or after since.
	WasAlertedSince(ctx context.Context, deviceID, disease string, since time.Time) (bool, error)
	RecordAlert(ctx context.Context, alert SentAlert) error
}
