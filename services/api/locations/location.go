package locations

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LatLng is a geographic position in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a named point of interest. ID is its index in the Store.
type Location struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Position LatLng `json:"location"`
}

// Store is the immutable ordered set of locations loaded at startup.
type Store struct {
	locations []Location
}

// NewStore copies the given locations and assigns each its position as ID.
func NewStore(locs []Location) *Store {
	out := make([]Location, len(locs))
	for i, loc := range locs {
		loc.ID = i
		out[i] = loc
	}
	return &Store{locations: out}
}

// All returns a copy of the locations in store order.
func (s *Store) All() []Location {
	result := make([]Location, len(s.locations))
	copy(result, s.locations)
	return result
}

// Get returns the location with the given ID.
func (s *Store) Get(id int) (Location, bool) {
	if id < 0 || id >= len(s.locations) {
		return Location{}, false
	}
	return s.locations[id], true
}

// Len returns the number of locations.
func (s *Store) Len() int {
	return len(s.locations)
}

// First returns the first location; the map is initially centered on it.
func (s *Store) First() (Location, bool) {
	return s.Get(0)
}

// GeoJSON renders the store as a FeatureCollection of points, one per location.
func (s *Store) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, loc := range s.locations {
		f := geojson.NewFeature(orb.Point{loc.Position.Lng, loc.Position.Lat})
		f.ID = loc.ID
		f.Properties["id"] = loc.ID
		f.Properties["title"] = loc.Title
		fc.Append(f)
	}
	return fc
}
