package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/parkmap/services/watcher/internal/models"
)

// EnsureSchema creates the locations table read by the API.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE SCHEMA IF NOT EXISTS parkmap;
CREATE TABLE IF NOT EXISTS parkmap.locations (
    ordinal    INTEGER PRIMARY KEY,
    title      TEXT NOT NULL,
    lat        DOUBLE PRECISION NOT NULL,
    lng        DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`)
	return err
}

// FetchLocations loads the stored rows keyed by ordinal.
func FetchLocations(ctx context.Context, pool *pgxpool.Pool) (map[int]models.LocationRow, error) {
	rows, err := pool.Query(ctx, `SELECT ordinal, title, lat, lng FROM parkmap.locations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int]models.LocationRow)
	for rows.Next() {
		var r models.LocationRow
		if err := rows.Scan(&r.Ordinal, &r.Title, &r.Lat, &r.Lng); err != nil {
			return nil, err
		}
		result[r.Ordinal] = r
	}
	return result, rows.Err()
}

// UpsertLocations inserts/updates location rows.
func UpsertLocations(ctx context.Context, pool *pgxpool.Pool, locs []models.LocationRow) error {
	if len(locs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO parkmap.locations (ordinal, title, lat, lng, created_at, updated_at)
VALUES ($1,$2,$3,$4,NOW(),NOW())
ON CONFLICT (ordinal) DO UPDATE
SET title = EXCLUDED.title,
    lat = EXCLUDED.lat,
    lng = EXCLUDED.lng,
    updated_at = NOW()`

	for _, l := range locs {
		batch.Queue(query, l.Ordinal, l.Title, l.Lat, l.Lng)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range locs {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// DeleteBeyond removes rows whose ordinal is not below count.
func DeleteBeyond(ctx context.Context, pool *pgxpool.Pool, count int) (int64, error) {
	tag, err := pool.Exec(ctx, `DELETE FROM parkmap.locations WHERE ordinal >= $1`, count)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
