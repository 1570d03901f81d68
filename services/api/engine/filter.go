package engine

import (
	"strings"

	"github.com/02loveslollipop/parkmap/services/api/locations"
	"github.com/02loveslollipop/parkmap/services/api/logger"
	"github.com/02loveslollipop/parkmap/services/api/metrics"
)

// FilterState is the free-text search typed by the user.
type FilterState struct {
	Query string `json:"query"`
}

// VisibilityVector maps every location ID to whether it passes the filter.
type VisibilityVector map[int]bool

// Visible reports the flag for id.
func (v VisibilityVector) Visible(id int) bool { return v[id] }

// Count returns the number of visible locations.
func (v VisibilityVector) Count() int {
	n := 0
	for _, ok := range v {
		if ok {
			n++
		}
	}
	return n
}

// ComputeVisibility is the filter itself: a location is visible when the
// query is empty or a case-insensitive substring of its title.
func ComputeVisibility(store *locations.Store, query string) VisibilityVector {
	all := store.All()
	out := make(VisibilityVector, len(all))
	needle := strings.ToUpper(query)
	for _, loc := range all {
		out[loc.ID] = needle == "" || strings.Contains(strings.ToUpper(loc.Title), needle)
	}
	return out
}

// FilterEngine owns the search state and broadcasts a full vector on every
// recompute. There is no debounce or diffing: every keystroke recomputes all
// locations, which is fine for the handful of locations a session holds.
type FilterEngine struct {
	store  *locations.Store
	state  FilterState
	vector VisibilityVector
	topic  *Topic[VisibilityVector]
}

// NewFilterEngine creates a filter publishing to topic. Nothing is computed
// until the first SetQuery or Recompute.
func NewFilterEngine(store *locations.Store, topic *Topic[VisibilityVector]) *FilterEngine {
	return &FilterEngine{store: store, topic: topic}
}

// SetQuery replaces the query and recomputes.
func (f *FilterEngine) SetQuery(query string) VisibilityVector {
	f.state.Query = query
	return f.Recompute()
}

// Recompute derives a fresh vector and publishes it to every listener.
func (f *FilterEngine) Recompute() VisibilityVector {
	f.vector = ComputeVisibility(f.store, f.state.Query)
	metrics.FilterRecomputesTotal.Inc()
	logger.L().Debug("filter_recompute", "query", f.state.Query, "visible", f.vector.Count(), "total", len(f.vector))
	f.topic.Publish(f.vector)
	return f.vector
}

// State returns the current filter state.
func (f *FilterEngine) State() FilterState { return f.state }

// Vector returns a copy of the last computed vector.
func (f *FilterEngine) Vector() VisibilityVector {
	out := make(VisibilityVector, len(f.vector))
	for k, v := range f.vector {
		out[k] = v
	}
	return out
}
