package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/02loveslollipop/parkmap/services/api/locations"

	_ "modernc.org/sqlite"
)

// SQLite is a file-backed location source for single-node deployments.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLite{db: conn}, nil
}

// EnsureSchema creates the locations table if it does not exist.
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS locations (
		ordinal INTEGER PRIMARY KEY,
		title   TEXT NOT NULL,
		lat     REAL NOT NULL,
		lng     REAL NOT NULL
	)`)
	return err
}

// ReplaceLocations rewrites the table with locs in order.
func (s *SQLite) ReplaceLocations(ctx context.Context, locs []locations.Location) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		return err
	}
	for i, loc := range locs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO locations (ordinal, title, lat, lng) VALUES (?, ?, ?, ?)`,
			i, loc.Title, loc.Position.Lat, loc.Position.Lng,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Seed creates the schema and, when the table is empty, fills it from src.
// It returns the number of rows written.
func (s *SQLite) Seed(ctx context.Context, src locations.Source) (int, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return 0, fmt.Errorf("ensure sqlite schema: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	locs, err := src.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("read seed locations: %w", err)
	}
	if err := s.ReplaceLocations(ctx, locs); err != nil {
		return 0, err
	}
	return len(locs), nil
}

// ListLocations returns all locations ordered by ordinal.
func (s *SQLite) ListLocations(ctx context.Context) ([]locations.Location, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, lat, lng FROM locations ORDER BY ordinal`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locs := make([]locations.Location, 0)
	for rows.Next() {
		var loc locations.Location
		if err := rows.Scan(&loc.Title, &loc.Position.Lat, &loc.Position.Lng); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// Load implements locations.Source.
func (s *SQLite) Load(ctx context.Context) ([]locations.Location, error) {
	return s.ListLocations(ctx)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
