package devices

import "time"

// Device is a registered mobile client eligible for outbreak alerts.
type Device struct {
	ID                   string    `json:"deviceId"`
	DeviceToken          string    `json:"-"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
	Language             string    `json:"language"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// SentAlert records one delivered alert for dedupe.
type SentAlert struct {
	ID       string
	DeviceID string
	Disease  string
	SentAt   time.Time
}
