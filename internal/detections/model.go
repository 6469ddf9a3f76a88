package detections

import "time"

// Event is one persisted disease detection. Latitude and Longitude are nil
// when the uploader did not share a location.
type Event struct {
	ID         string    `json:"id"`
	Crop       string    `json:"crop"`
	Disease    string    `json:"disease"`
	Confidence float64   `json:"confidence"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	ImageKey   string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HasLocation reports whether the event carries usable coordinates.
func (e Event) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}
