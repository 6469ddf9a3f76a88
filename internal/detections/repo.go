package detections

import (
	"context"
	"time"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "detection event not found" }

// Repo defines persistence operations for detection events.
type Repo interface {
	Create(ctx context.Context, event Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	// ListInBox returns events inside a lat/lng bounding box created at or
	// after since, newest first. Events without a location are skipped.
	ListInBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64, since time.Time) ([]Event, error)
}
