package locations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const parksJSON = `[
  {"title": "Yellowstone", "location": {"lat": 44.6, "lng": -110.5}},
  {"title": "Yosemite", "location": {"lat": 37.8, "lng": -119.5}}
]`

func TestNewStoreAssignsPositionIDs(t *testing.T) {
	input := []Location{
		{ID: 42, Title: "Yellowstone", Position: LatLng{Lat: 44.6, Lng: -110.5}},
		{ID: 42, Title: "Yellowstone", Position: LatLng{Lat: 1, Lng: 2}},
	}
	store := NewStore(input)

	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
	for i, loc := range store.All() {
		if loc.ID != i {
			t.Errorf("location %d has ID %d", i, loc.ID)
		}
	}

	// input must not be aliased
	input[0].Title = "changed"
	if loc, _ := store.Get(0); loc.Title != "Yellowstone" {
		t.Errorf("store was mutated through input slice: %q", loc.Title)
	}

	if _, ok := store.Get(2); ok {
		t.Error("Get(2) should be out of range")
	}
	if _, ok := store.Get(-1); ok {
		t.Error("Get(-1) should be out of range")
	}
	first, ok := store.First()
	if !ok || first.ID != 0 {
		t.Errorf("First = %+v, %v", first, ok)
	}
}

func TestDecode(t *testing.T) {
	locs, err := Decode(strings.NewReader(parksJSON))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("got %d locations", len(locs))
	}
	if locs[1].Title != "Yosemite" || locs[1].Position.Lat != 37.8 || locs[1].Position.Lng != -119.5 {
		t.Errorf("unexpected location: %+v", locs[1])
	}

	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locations.json")
	if err := os.WriteFile(path, []byte(parksJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Load(context.Background(), "file", FileSource{Path: path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len = %d", store.Len())
	}

	_, err = Load(context.Background(), "file", FileSource{Path: filepath.Join(dir, "missing.json")})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoadRejectsEmptyList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(context.Background(), "file", FileSource{Path: path})
	if !errors.Is(err, ErrNoLocations) {
		t.Errorf("expected ErrNoLocations, got %v", err)
	}
}

func TestURLSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(parksJSON))
	}))
	defer srv.Close()

	locs, err := URLSource{Client: srv.Client(), URL: srv.URL + "/locations.json"}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(locs) != 2 {
		t.Errorf("got %d locations", len(locs))
	}

	if _, err := (URLSource{URL: srv.URL + "/broken"}).Load(context.Background()); err == nil {
		t.Error("expected error on 500")
	}
}

func TestGeoJSON(t *testing.T) {
	locs, _ := Decode(strings.NewReader(parksJSON))
	fc := NewStore(locs).GeoJSON()

	if len(fc.Features) != 2 {
		t.Fatalf("got %d features", len(fc.Features))
	}
	f := fc.Features[1]
	if f.Properties["title"] != "Yosemite" {
		t.Errorf("title = %v", f.Properties["title"])
	}
	pt := f.Point()
	if pt.Lat() != 37.8 || pt.Lon() != -119.5 {
		t.Errorf("point = %v", pt)
	}
}
