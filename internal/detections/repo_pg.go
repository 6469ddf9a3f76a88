package detections

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new detection event.
func (r *PGRepo) Create(ctx context.Context, event Event) error {
	const query = `
INSERT INTO detection_events (id, crop, disease, confidence, latitude, longitude, image_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var lat, lng sql.NullFloat64
	if event.Latitude != nil {
		lat = sql.NullFloat64{Float64: *event.Latitude, Valid: true}
	}
	if event.Longitude != nil {
		lng = sql.NullFloat64{Float64: *event.Longitude, Valid: true}
	}
	var imageKey sql.NullString
	if event.ImageKey != "" {
		imageKey = sql.NullString{String: event.ImageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		event.ID,
		event.Crop,
		event.Disease,
		event.Confidence,
		lat,
		lng,
		imageKey,
		event.CreatedAt,
	)
	return err
}

// GetByID returns a detection event by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Event, error) {
	const query = `
SELECT id, crop, disease, confidence, latitude, longitude, image_key, created_at
FROM detection_events
WHERE id = $1`

	row := r.DB.QueryRowContext(ctx, query, id)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	return event, err
}

// ListInBox returns located events inside the box created at or after since.
func (r *PGRepo) ListInBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64, since time.Time) ([]Event, error) {
	const query = `
SELECT id, crop, disease, confidence, latitude, longitude, image_key, created_at
FROM detection_events
WHERE latitude IS NOT NULL AND longitude IS NOT NULL
  AND latitude BETWEEN $1 AND $2
  AND longitude BETWEEN $3 AND $4
  AND created_at >= $5
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, minLat, maxLat, minLng, maxLng, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var event Event
	var lat, lng sql.NullFloat64
	var imageKey sql.NullString
	err := row.Scan(
		&event.ID,
		&event.Crop,
		&event.Disease,
		&event.Confidence,
		&lat,
		&lng,
		&imageKey,
		&event.CreatedAt,
	)
	if err != nil {
		return Event{}, err
	}
	if lat.Valid {
		event.Latitude = &lat.Float64
	}
	if lng.Valid {
		event.Longitude = &lng.Float64
	}
	event.ImageKey = imageKey.String
	return event, nil
}
