package engine

import "github.com/02loveslollipop/parkmap/services/api/locations"

// EffectKind names an instruction for the map widget adapter.
type EffectKind string

const (
	EffectCreateMarker      EffectKind = "marker.create"
	EffectShowMarker        EffectKind = "marker.show"
	EffectHideMarker        EffectKind = "marker.hide"
	EffectHighlightMarker   EffectKind = "marker.highlight"
	EffectUnhighlightMarker EffectKind = "marker.unhighlight"
	EffectHoverMarker       EffectKind = "marker.hover"
	EffectUnhoverMarker     EffectKind = "marker.unhover"
	EffectCenterMap         EffectKind = "map.center"
	EffectOpenPanel         EffectKind = "panel.open"
	EffectClosePanel        EffectKind = "panel.close"
	EffectToggleDrawer      EffectKind = "drawer.toggle"
)

// Effect is a redraw descriptor. The engine never touches the widget; it
// publishes effects and the adapter mirrors them onto visual markers.
type Effect struct {
	Kind       EffectKind        `json:"kind"`
	LocationID int               `json:"location_id"`
	Title      string            `json:"title,omitempty"`
	Position   *locations.LatLng `json:"position,omitempty"`
	Zoom       int               `json:"zoom,omitempty"`
	Token      uint64            `json:"token,omitempty"`
}
