package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/parkmap/services/api/locations"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const listLocationsSQL = `
    SELECT title, lat, lng
    FROM parkmap.locations
    ORDER BY ordinal
`

// ListLocations returns all locations in their display order.
func (s *Store) ListLocations(ctx context.Context) ([]locations.Location, error) {
	rows, err := s.pool.Query(ctx, listLocationsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locs := make([]locations.Location, 0)
	for rows.Next() {
		var loc locations.Location
		if err := rows.Scan(
			&loc.Title,
			&loc.Position.Lat,
			&loc.Position.Lng,
		); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// Load implements locations.Source.
func (s *Store) Load(ctx context.Context) ([]locations.Location, error) {
	return s.ListLocations(ctx)
}
