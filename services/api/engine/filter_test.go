package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/02loveslollipop/parkmap/services/api/locations"
)

func TestComputeVisibility(t *testing.T) {
	store := locations.NewStore([]locations.Location{
		{Title: "Yellowstone"},
		{Title: "Yosemite"},
		{Title: "Grand Canyon"},
		{Title: "Glacier Bay"},
	})

	tests := []struct {
		query string
		want  []bool
	}{
		{"", []bool{true, true, true, true}},
		{"yose", []bool{false, true, false, false}},
		{"YO", []bool{false, true, true, false}},
		{"a", []bool{false, false, true, true}},
		{"canyon", []bool{false, false, true, false}},
		{" ", []bool{false, false, true, true}},
		{"zion", []bool{false, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			v := ComputeVisibility(store, tt.query)
			if len(v) != store.Len() {
				t.Fatalf("vector has %d entries, want %d", len(v), store.Len())
			}
			for id, want := range tt.want {
				if v.Visible(id) != want {
					t.Errorf("id %d visible = %v, want %v", id, v.Visible(id), want)
				}
			}
		})
	}
}

func TestComputeVisibilityMatchesDefinition(t *testing.T) {
	store := locations.NewStore([]locations.Location{
		{Title: "Yellowstone"}, {Title: "Yosemite"}, {Title: "Mount Rainier"}, {Title: "Zion"},
	})
	queries := []string{"", "o", "ON", "stone", "mount r", "x", "Yellowstone", "yellowstonee", "ZI"}

	for _, q := range queries {
		v := ComputeVisibility(store, q)
		for _, loc := range store.All() {
			want := q == "" || strings.Contains(strings.ToLower(loc.Title), strings.ToLower(q))
			if v.Visible(loc.ID) != want {
				t.Errorf("query %q, %q: visible = %v, want %v", q, loc.Title, v.Visible(loc.ID), want)
			}
		}
	}
}

func TestFilterEnginePublishesEveryRecompute(t *testing.T) {
	topic := NewTopic[VisibilityVector](TopicVisibility)
	var order []string
	var last VisibilityVector
	topic.Subscribe(func(v VisibilityVector) { order = append(order, "list") })
	topic.Subscribe(func(v VisibilityVector) {
		order = append(order, "markers")
		last = v
	})

	f := NewFilterEngine(parks(), topic)
	f.SetQuery("yose")
	f.SetQuery("yose")

	if len(order) != 4 {
		t.Fatalf("expected 4 deliveries, got %d", len(order))
	}
	for i, name := range order {
		want := "list"
		if i%2 == 1 {
			want = "markers"
		}
		if name != want {
			t.Errorf("delivery %d went to %s, want %s", i, name, want)
		}
	}
	if last.Visible(0) || !last.Visible(1) {
		t.Errorf("unexpected vector %v", last)
	}
	if f.State().Query != "yose" {
		t.Errorf("query = %q", f.State().Query)
	}
}

func TestScenarioQueryShowsOnlyMatchingMarker(t *testing.T) {
	h := newHarness(parks())

	snap, err := h.session.SetQuery(context.Background(), "yose")
	if err != nil {
		t.Fatalf("SetQuery failed: %v", err)
	}

	if snap.Visibility.Visible(0) || !snap.Visibility.Visible(1) {
		t.Errorf("visibility = %v, want [false true]", snap.Visibility)
	}
	if snap.Markers[0].Displayed || !snap.Markers[1].Displayed {
		t.Errorf("markers = %+v", snap.Markers)
	}
	if len(snap.List) != 1 || snap.List[0].Title != "Yosemite" {
		t.Errorf("list = %+v", snap.List)
	}

	snap, _ = h.session.SetQuery(context.Background(), "")
	if len(snap.List) != 2 || !snap.Markers[0].Displayed || !snap.Markers[1].Displayed {
		t.Errorf("empty query should show everything: %+v", snap)
	}
}
