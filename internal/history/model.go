package history

import "time"

// Search is one past diagnosis kept for the device's history screen.
type Search struct {
	ID          string    `json:"id"`
	Crop        string    `json:"crop"`
	Disease     string    `json:"disease"`
	Confidence  float64   `json:"confidence"`
	Language    string    `json:"language"`
	DeviceToken string    `json:"-"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DiseaseSummary aggregates a device's searches for one disease.
type DiseaseSummary struct {
	Disease        string    `json:"disease"`
	Count          int       `json:"count"`
	LastSearchedAt time.Time `json:"lastSearchedAt"`
}
