package history

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create stores one search.
func (r *PGRepo) Create(ctx context.Context, search Search) error {
	const query = `
INSERT INTO disease_searches (id, crop, disease, confidence, language, device_token, latitude, longitude, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var lat, lng sql.NullFloat64
	if search.Latitude != nil {
		lat = sql.NullFloat64{Float64: *search.Latitude, Valid: true}
	}
	if search.Longitude != nil {
		lng = sql.NullFloat64{Float64: *search.Longitude, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		search.ID,
		search.Crop,
		search.Disease,
		search.Confidence,
		search.Language,
		search.DeviceToken,
		lat,
		lng,
		search.CreatedAt,
	)
	return err
}

// ListByDevice returns a page of searches, newest first, plus the total.
func (r *PGRepo) ListByDevice(ctx context.Context, deviceToken string, limit, offset int) ([]Search, int, error) {
	const countQuery = `SELECT COUNT(*) FROM disease_searches WHERE device_token = $1`
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, deviceToken).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
SELECT id, crop, disease, confidence, language, device_token, latitude, longitude, created_at
FROM disease_searches
WHERE device_token = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, deviceToken, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Search
	for rows.Next() {
		var s Search
		var lat, lng sql.NullFloat64
		err := rows.Scan(&s.ID, &s.Crop, &s.Disease, &s.Confidence, &s.Language, &s.DeviceToken, &lat, &lng, &s.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		if lat.Valid {
			s.Latitude = &lat.Float64
		}
		if lng.Valid {
			s.Longitude = &lng.Float64
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// UniqueDiseases returns one summary per disease, most recently searched first.
func (r *PGRepo) UniqueDiseases(ctx context.Context, deviceToken string) ([]DiseaseSummary, error) {
	const query = `
SELECT disease, COUNT(*), MAX(created_at)
FROM disease_searches
WHERE device_token = $1
GROUP BY disease
ORDER BY MAX(created_at) DESC`

	rows, err := r.DB.QueryContext(ctx, query, deviceToken)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DiseaseSummary
	for rows.Next() {
		var d DiseaseSummary
		if err := rows.Scan(&d.Disease, &d.Count, &d.LastSearchedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteByID removes one search owned by the device.
func (r *PGRepo) DeleteByID(ctx context.Context, deviceToken, id string) error {
	const query = `DELETE FROM disease_searches WHERE device_token = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, deviceToken, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every search for the device.
func (r *PGRepo) DeleteAll(ctx context.Context, deviceToken string) (int, error) {
	const query = `DELETE FROM disease_searches WHERE device_token = $1`
	res, err := r.DB.ExecContext(ctx, query, deviceToken)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
