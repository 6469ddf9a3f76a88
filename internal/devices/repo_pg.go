package devices

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// UpsertByToken creates or refreshes a device registration.
func (r *PGRepo) UpsertByToken(ctx context.Context, device Device) (Device, error) {
	const query = `
INSERT INTO devices (id, device_token, latitude, longitude, notifications_enabled, language, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (device_token) DO UPDATE SET
    latitude = EXCLUDED.latitude,
    longitude = EXCLUDED.longitude,
    notifications_enabled = EXCLUDED.notifications_enabled,
    language = EXCLUDED.language,
    updated_at = EXCLUDED.updated_at
RETURNING id, device_token, latitude, longitude, notifications_enabled, language, created_at, updated_at`

	now := time.Now().UTC()
	row := r.DB.QueryRowContext(ctx, query,
		uuid.NewString(),
		device.DeviceToken,
		device.Latitude,
		device.Longitude,
		device.NotificationsEnabled,
		nullString(device.Language),
		now,
	)
	return scanDevice(row)
}

// GetByToken returns a device by its token.
func (r *PGRepo) GetByToken(ctx context.Context, deviceToken string) (Device, error) {
	const query = `
SELECT id, device_token, latitude, longitude, notifications_enabled, language, created_at, updated_at
FROM devices
WHERE device_token = $1`

	device, err := scanDevice(r.DB.QueryRowContext(ctx, query, deviceToken))
	if errors.Is(err, sql.ErrNoRows) {
		return Device{}, ErrNotFound
	}
	return device, err
}

// ListInBox returns devices inside the bounding box.
func (r *PGRepo) ListInBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]Device, error) {
	const query = `
SELECT id, device_token, latitude, longitude, notifications_enabled, language, created_at, updated_at
FROM devices
WHERE latitude BETWEEN $1 AND $2
  AND longitude BETWEEN $3 AND $4`

	rows, err := r.DB.QueryContext(ctx, query, minLat, maxLat, minLng, maxLng)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Device
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, device)
	}
	return out, rows.Err()
}

// WasAlertedSince reports whether an alert for the disease was already sent.
func (r *PGRepo) WasAlertedSince(ctx context.Context, deviceID, disease string, since time.Time) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM sent_alerts
    WHERE device_id = $1 AND disease = $2 AND sent_at >= $3
)`
	var exists bool
	err := r.DB.QueryRowContext(ctx, query, deviceID, disease, since).Scan(&exists)
	return exists, err
}

// RecordAlert stores one delivered alert.
func (r *PGRepo) RecordAlert(ctx context.Context, alert SentAlert) error {
	const query = `
INSERT INTO sent_alerts (id, device_id, disease, sent_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, alert.ID, alert.DeviceID, alert.Disease, alert.SentAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (Device, error) {
	var device Device
	var language sql.NullString
	err := row.Scan(
		&device.ID,
		&device.DeviceToken,
		&device.Latitude,
		&device.Longitude,
		&device.NotificationsEnabled,
		&language,
		&device.CreatedAt,
		&device.UpdatedAt,
	)
	if err != nil {
		return Device{}, err
	}
	device.Language = language.String
	return device, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
