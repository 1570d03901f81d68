package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/02loveslollipop/parkmap/services/api/locations"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "locations.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer s.Close()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	in := []locations.Location{
		{Title: "Yellowstone", Position: locations.LatLng{Lat: 44.6, Lng: -110.5}},
		{Title: "Yosemite", Position: locations.LatLng{Lat: 37.8, Lng: -119.5}},
	}
	if err := s.ReplaceLocations(ctx, in); err != nil {
		t.Fatalf("ReplaceLocations failed: %v", err)
	}

	store, err := locations.Load(ctx, "sqlite", s)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("Len = %d", store.Len())
	}
	loc, _ := store.Get(1)
	if loc.ID != 1 || loc.Title != "Yosemite" || loc.Position.Lng != -119.5 {
		t.Errorf("unexpected location %+v", loc)
	}

	// replacing shrinks the table
	if err := s.ReplaceLocations(ctx, in[1:]); err != nil {
		t.Fatal(err)
	}
	got, err := s.ListLocations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Yosemite" {
		t.Errorf("got %+v", got)
	}
}

func TestSQLiteEmptyIsLoadError(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}

	_, err = locations.Load(ctx, "sqlite", s)
	if !errors.Is(err, locations.ErrNoLocations) {
		t.Errorf("expected ErrNoLocations, got %v", err)
	}
}

type staticSource []locations.Location

func (s staticSource) Load(ctx context.Context) ([]locations.Location, error) {
	return s, nil
}

func TestSQLiteSeedFreshDatabase(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	seed := staticSource{
		{Title: "Zion", Position: locations.LatLng{Lat: 37.3, Lng: -113.0}},
		{Title: "Arches", Position: locations.LatLng{Lat: 38.7, Lng: -109.6}},
	}
	n, err := s.Seed(ctx, seed)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if n != 2 {
		t.Errorf("seeded %d rows, want 2", n)
	}

	store, err := locations.Load(ctx, "sqlite", s)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loc, _ := store.Get(1); loc.Title != "Arches" {
		t.Errorf("unexpected location %+v", loc)
	}

	// an existing list is left alone
	n, err = s.Seed(ctx, staticSource{{Title: "Other"}})
	if err != nil || n != 0 {
		t.Errorf("second Seed = %d, %v", n, err)
	}
	got, _ := s.ListLocations(ctx)
	if len(got) != 2 {
		t.Errorf("table changed on second seed: %+v", got)
	}
}
