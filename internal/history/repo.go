package history

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "search not found" }

// Repo defines persistence operations for search history. Every read and
// delete is scoped to one device token.
type Repo interface {
	Create(ctx context.Context, search Search) error
	// ListByDevice returns a page of searches, newest first, plus the total
	// count for the device.
	ListByDevice(ctx context.Context, deviceToken string, limit, offset int) ([]Search, int, error)
	// UniqueDiseases returns one summary per distinct disease the device has
	// diagnosed, most recently searched first.
	UniqueDiseases(ctx context.Context, deviceToken string) ([]DiseaseSummary, error)
	DeleteByID(ctx context.Context, deviceToken, id string) error
	// DeleteAll removes every search for the device and returns the count.
	DeleteAll(ctx context.Context, deviceToken string) (int, error)
}
