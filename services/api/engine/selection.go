package engine

import (
	"errors"

	"github.com/02loveslollipop/parkmap/services/api/locations"
	"github.com/02loveslollipop/parkmap/services/api/logger"
	"github.com/02loveslollipop/parkmap/services/api/metrics"
)

// ErrUnknownLocation is returned when a selection names no location.
var ErrUnknownLocation = errors.New("unknown location")

// SelectionState is the coordinator's state machine position.
type SelectionState string

const (
	StateIdle      SelectionState = "idle"
	StateSelecting SelectionState = "selecting"
	StateSelected  SelectionState = "selected"
)

// Origin is where a selection request came from.
type Origin string

const (
	OriginList   Origin = "list"
	OriginMarker Origin = "marker"
)

// DetailRequest identifies one detail fetch. Tokens only ever increase.
type DetailRequest struct {
	LocationID int    `json:"location_id"`
	Token      uint64 `json:"token"`
}

// Fetcher starts the detail lookups for a request and reports back to sink.
type Fetcher interface {
	Fetch(loc locations.Location, req DetailRequest, sink ResultSink)
}

// ResultSink receives detail results. CurrentToken is consulted before any
// result is applied.
type ResultSink interface {
	CurrentToken() (uint64, bool)
	applyWeather(req DetailRequest, field WeatherField)
	applyImagery(req DetailRequest, field ImageryField)
}

// SelectionCoordinator is the single owner of the current selection and of
// the detail panel.
type SelectionCoordinator struct {
	store   *locations.Store
	markers *MarkerSynchronizer
	fetcher Fetcher
	effects *Topic[Effect]
	panels  *Topic[PanelContent]

	state     SelectionState
	current   *DetailRequest
	lastToken uint64
	panel     *PanelContent
}

// NewSelectionCoordinator starts in the idle state.
func NewSelectionCoordinator(store *locations.Store, markers *MarkerSynchronizer, fetcher Fetcher, effects *Topic[Effect], panels *Topic[PanelContent]) *SelectionCoordinator {
	return &SelectionCoordinator{
		store:   store,
		markers: markers,
		fetcher: fetcher,
		effects: effects,
		panels:  panels,
		state:   StateIdle,
	}
}

// Select makes id the selection. Selecting the already selected location runs
// the whole sequence again with a new token. The previous marker is released
// and the new panel is open before any fetch is started.
func (c *SelectionCoordinator) Select(id int, origin Origin) (DetailRequest, error) {
	loc, ok := c.store.Get(id)
	if !ok {
		return DetailRequest{}, ErrUnknownLocation
	}

	if origin == OriginList {
		c.effects.Publish(Effect{Kind: EffectToggleDrawer, LocationID: id})
	}

	c.releaseHighlight()

	c.lastToken++
	req := DetailRequest{LocationID: id, Token: c.lastToken}
	c.current = &req
	c.state = StateSelecting

	pos := loc.Position
	c.effects.Publish(Effect{Kind: EffectCenterMap, LocationID: id, Position: &pos})
	c.markers.SetHighlighted(id, true)

	c.panel = pendingPanel(req, loc.Title)
	c.effects.Publish(Effect{Kind: EffectOpenPanel, LocationID: id, Title: loc.Title, Token: req.Token})
	c.panels.Publish(*c.panel)

	metrics.SelectionsTotal.WithLabelValues(string(origin)).Inc()
	logger.L().Debug("selection", "location_id", id, "token", req.Token, "origin", origin)

	c.fetcher.Fetch(loc, req, c)
	return req, nil
}

// Close returns to idle: highlight cleared, panel emptied. Fetches still in
// flight keep running; their results no longer match and are dropped.
func (c *SelectionCoordinator) Close() {
	if c.state == StateIdle {
		return
	}
	id := c.current.LocationID
	c.releaseHighlight()
	c.current = nil
	c.panel = nil
	c.state = StateIdle

	c.effects.Publish(Effect{Kind: EffectClosePanel, LocationID: id})
	c.panels.Publish(PanelContent{Open: false, LocationID: id})
	logger.L().Debug("selection_closed", "location_id", id)
}

func (c *SelectionCoordinator) releaseHighlight() {
	if c.current != nil {
		c.markers.SetHighlighted(c.current.LocationID, false)
	}
}

// CurrentToken returns the token of the active selection.
func (c *SelectionCoordinator) CurrentToken() (uint64, bool) {
	if c.current == nil {
		return 0, false
	}
	return c.current.Token, true
}

// State returns the state machine position.
func (c *SelectionCoordinator) State() SelectionState { return c.state }

// Selection returns the active request, if any.
func (c *SelectionCoordinator) Selection() (DetailRequest, bool) {
	if c.current == nil {
		return DetailRequest{}, false
	}
	return *c.current, true
}

// Panel returns a snapshot of the open panel.
func (c *SelectionCoordinator) Panel() (PanelContent, bool) {
	if c.panel == nil {
		return PanelContent{}, false
	}
	return *c.panel, true
}

func (c *SelectionCoordinator) applyWeather(req DetailRequest, field WeatherField) {
	c.panel.Weather = field
	c.resolved()
}

func (c *SelectionCoordinator) applyImagery(req DetailRequest, field ImageryField) {
	c.panel.Imagery = field
	c.resolved()
}

func (c *SelectionCoordinator) resolved() {
	c.state = StateSelected
	c.panels.Publish(*c.panel)
}
