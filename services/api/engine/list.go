package engine

import "github.com/02loveslollipop/parkmap/services/api/locations"

// ListEntry is one row of the rendered location list.
type ListEntry struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// ListView is the list renderer's projection: the visible locations in store order.
type ListView struct {
	store   *locations.Store
	entries []ListEntry
}

// NewListView subscribes a list projection to the visibility topic.
func NewListView(store *locations.Store, visibility *Topic[VisibilityVector]) *ListView {
	l := &ListView{store: store}
	visibility.Subscribe(l.apply)
	return l
}

func (l *ListView) apply(v VisibilityVector) {
	entries := make([]ListEntry, 0, len(v))
	for _, loc := range l.store.All() {
		if v[loc.ID] {
			entries = append(entries, ListEntry{ID: loc.ID, Title: loc.Title})
		}
	}
	l.entries = entries
}

// Entries returns a copy of the visible rows.
func (l *ListView) Entries() []ListEntry {
	out := make([]ListEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
