package engine

import (
	"context"

	"github.com/02loveslollipop/parkmap/services/api/locations"
	"github.com/02loveslollipop/parkmap/services/api/logger"
)

// Topic names, also used as SSE event types.
const (
	TopicVisibility = "visibility"
	TopicEffect     = "effect"
	TopicPanel      = "panel"
)

// Options configures the collaborators shared by every session.
type Options struct {
	Weather WeatherProvider
	Imagery ImageryProvider
	// RadiusM is the fixed imagery search radius.
	RadiusM int
	Zoom    int
}

// MapView is the initial camera of the map widget.
type MapView struct {
	Center locations.LatLng `json:"center"`
	Zoom   int              `json:"zoom"`
}

// Snapshot is the full observable state of a session.
type Snapshot struct {
	SessionID  string           `json:"session_id"`
	Map        MapView          `json:"map"`
	Query      string           `json:"query"`
	State      SelectionState   `json:"state"`
	Selection  *DetailRequest   `json:"selection,omitempty"`
	Visibility VisibilityVector `json:"visibility"`
	List       []ListEntry      `json:"list"`
	Markers    []MarkerHandle   `json:"markers"`
	Panel      *PanelContent    `json:"panel,omitempty"`
}

// Event is one item of a session's outbound stream.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Session is the application context for one map page: it owns every
// component and all state is touched only from its executor's loop.
type Session struct {
	id      string
	store   *locations.Store
	exec    Executor
	done    <-chan struct{}
	mapView MapView

	visibility *Topic[VisibilityVector]
	effects    *Topic[Effect]
	panels     *Topic[PanelContent]

	filter    *FilterEngine
	list      *ListView
	markers   *MarkerSynchronizer
	selection *SelectionCoordinator
	details   *DetailAggregator
}

// NewSession wires the components, applies the empty filter and centers the
// map on the first location. It must run before exec starts delivering work.
func NewSession(ctx context.Context, id string, store *locations.Store, exec Executor, opts Options) *Session {
	s := &Session{
		id:         id,
		store:      store,
		exec:       exec,
		done:       ctx.Done(),
		visibility: NewTopic[VisibilityVector](TopicVisibility),
		effects:    NewTopic[Effect](TopicEffect),
		panels:     NewTopic[PanelContent](TopicPanel),
	}

	// the list renders before the markers are redrawn
	s.list = NewListView(store, s.visibility)
	s.markers = NewMarkerSynchronizer(store.All(), s.effects)
	s.visibility.Subscribe(func(v VisibilityVector) { s.markers.ApplyVisibility(v) })

	s.filter = NewFilterEngine(store, s.visibility)
	s.details = NewDetailAggregator(ctx, exec, opts.Weather, opts.Imagery, opts.RadiusM)
	s.selection = NewSelectionCoordinator(store, s.markers, s.details, s.effects, s.panels)

	s.filter.Recompute()

	s.mapView = MapView{Zoom: opts.Zoom}
	if first, ok := store.First(); ok {
		s.mapView.Center = first.Position
		pos := first.Position
		s.effects.Publish(Effect{Kind: EffectCenterMap, LocationID: first.ID, Position: &pos, Zoom: opts.Zoom})
	}

	logger.L().Info("session_started", "session_id", id, "locations", store.Len())
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Done is closed when the session is shut down.
func (s *Session) Done() <-chan struct{} { return s.done }

// SetQuery updates the search text and returns the resulting state.
func (s *Session) SetQuery(ctx context.Context, query string) (Snapshot, error) {
	var snap Snapshot
	err := s.exec.Do(ctx, func() {
		s.filter.SetQuery(query)
		snap = s.snapshot()
	})
	return snap, err
}

// Select handles a list or marker click.
func (s *Session) Select(ctx context.Context, id int, origin Origin) (DetailRequest, error) {
	var (
		req    DetailRequest
		selErr error
	)
	err := s.exec.Do(ctx, func() {
		req, selErr = s.selection.Select(id, origin)
	})
	if err != nil {
		return DetailRequest{}, err
	}
	return req, selErr
}

// ClosePanel handles the panel's close button.
func (s *Session) ClosePanel(ctx context.Context) error {
	return s.exec.Do(ctx, s.selection.Close)
}

// MapClick handles a click on the map background.
func (s *Session) MapClick(ctx context.Context) error {
	return s.exec.Do(ctx, s.selection.Close)
}

// Hover handles marker mouseover and mouseout.
func (s *Session) Hover(ctx context.Context, id int, on bool) error {
	var hoverErr error
	err := s.exec.Do(ctx, func() {
		if _, ok := s.markers.Lookup(id); !ok {
			hoverErr = ErrUnknownLocation
			return
		}
		s.markers.SetHovered(id, on)
	})
	if err != nil {
		return err
	}
	return hoverErr
}

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.exec.Do(ctx, func() { snap = s.snapshot() })
	return snap, err
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		SessionID:  s.id,
		Map:        s.mapView,
		Query:      s.filter.State().Query,
		State:      s.selection.State(),
		Visibility: s.filter.Vector(),
		List:       s.list.Entries(),
		Markers:    s.markers.Handles(),
	}
	if req, ok := s.selection.Selection(); ok {
		snap.Selection = &req
	}
	if panel, ok := s.selection.Panel(); ok {
		snap.Panel = &panel
	}
	return snap
}

// Subscribe streams visibility, effect and panel events into a buffered
// channel. A full channel drops the event. The returned function detaches
// the subscriber.
func (s *Session) Subscribe(ctx context.Context, buffer int) (<-chan Event, func(), error) {
	_, events, detach, err := s.Attach(ctx, buffer)
	return events, detach, err
}

// Attach takes a snapshot and subscribes in the same loop turn, so every
// event on the channel happened after the snapshot.
func (s *Session) Attach(ctx context.Context, buffer int) (Snapshot, <-chan Event, func(), error) {
	out := make(chan Event, buffer)
	send := func(e Event) {
		select {
		case out <- e:
		default:
			logger.L().Warn("session_stream_full", "session_id", s.id, "type", e.Type)
		}
	}

	var (
		snap   Snapshot
		unsubs []func()
	)
	err := s.exec.Do(ctx, func() {
		snap = s.snapshot()
		unsubs = append(unsubs,
			s.visibility.Subscribe(func(v VisibilityVector) { send(Event{Type: TopicVisibility, Data: v}) }),
			s.effects.Subscribe(func(e Effect) { send(Event{Type: TopicEffect, Data: e}) }),
			s.panels.Subscribe(func(p PanelContent) { send(Event{Type: TopicPanel, Data: p}) }),
		)
	})
	if err != nil {
		return Snapshot{}, nil, nil, err
	}

	detach := func() {
		_ = s.exec.Do(context.Background(), func() {
			for _, unsub := range unsubs {
				unsub()
			}
		})
	}
	return snap, out, detach, nil
}
