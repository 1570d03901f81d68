package engine

import "github.com/02loveslollipop/parkmap/services/api/locations"

// MarkerHandle is the logical state of one map marker.
type MarkerHandle struct {
	LocationID  int  `json:"location_id"`
	Displayed   bool `json:"displayed"`
	Highlighted bool `json:"highlighted"`
	Hovered     bool `json:"hovered"`
}

// MarkerSynchronizer keeps exactly one handle per location, keyed by
// location ID, and publishes an effect for every state change.
type MarkerSynchronizer struct {
	order   []int
	handles map[int]*MarkerHandle
	effects *Topic[Effect]
}

// NewMarkerSynchronizer builds one hidden marker per location. The set of
// handles never changes afterwards.
func NewMarkerSynchronizer(locs []locations.Location, effects *Topic[Effect]) *MarkerSynchronizer {
	m := &MarkerSynchronizer{
		order:   make([]int, 0, len(locs)),
		handles: make(map[int]*MarkerHandle, len(locs)),
		effects: effects,
	}
	for _, loc := range locs {
		pos := loc.Position
		m.order = append(m.order, loc.ID)
		m.handles[loc.ID] = &MarkerHandle{LocationID: loc.ID}
		effects.Publish(Effect{Kind: EffectCreateMarker, LocationID: loc.ID, Title: loc.Title, Position: &pos})
	}
	return m
}

// Len returns the number of handles.
func (m *MarkerSynchronizer) Len() int { return len(m.order) }

// ApplyVisibility copies the vector onto each handle's displayed flag. Only
// handles whose flag changes produce an effect, so applying the same vector
// twice is a no-op. Locations missing from the vector are hidden.
func (m *MarkerSynchronizer) ApplyVisibility(v VisibilityVector) int {
	changed := 0
	for _, id := range m.order {
		h := m.handles[id]
		want := v[id]
		if h.Displayed == want {
			continue
		}
		h.Displayed = want
		changed++
		kind := EffectHideMarker
		if want {
			kind = EffectShowMarker
		}
		m.effects.Publish(Effect{Kind: kind, LocationID: id})
	}
	return changed
}

// FindByLocation looks up a handle by location identity, never by title.
func (m *MarkerSynchronizer) FindByLocation(loc locations.Location) (MarkerHandle, bool) {
	return m.Lookup(loc.ID)
}

// Lookup returns a copy of the handle for id.
func (m *MarkerSynchronizer) Lookup(id int) (MarkerHandle, bool) {
	h, ok := m.handles[id]
	if !ok {
		return MarkerHandle{}, false
	}
	return *h, true
}

// SetHighlighted toggles selection emphasis. It never touches Displayed.
func (m *MarkerSynchronizer) SetHighlighted(id int, on bool) bool {
	h, ok := m.handles[id]
	if !ok || h.Highlighted == on {
		return false
	}
	h.Highlighted = on
	kind := EffectUnhighlightMarker
	if on {
		kind = EffectHighlightMarker
	}
	m.effects.Publish(Effect{Kind: kind, LocationID: id})
	return true
}

// SetHovered toggles the hover icon.
func (m *MarkerSynchronizer) SetHovered(id int, on bool) bool {
	h, ok := m.handles[id]
	if !ok || h.Hovered == on {
		return false
	}
	h.Hovered = on
	kind := EffectUnhoverMarker
	if on {
		kind = EffectHoverMarker
	}
	m.effects.Publish(Effect{Kind: kind, LocationID: id})
	return true
}

// Handles returns copies of all handles in location order.
func (m *MarkerSynchronizer) Handles() []MarkerHandle {
	out := make([]MarkerHandle, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.handles[id])
	}
	return out
}

// Highlighted returns the IDs of highlighted markers.
func (m *MarkerSynchronizer) Highlighted() []int {
	var ids []int
	for _, id := range m.order {
		if m.handles[id].Highlighted {
			ids = append(ids, id)
		}
	}
	return ids
}
