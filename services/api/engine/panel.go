package engine

import (
	"github.com/02loveslollipop/parkmap/services/api/providers/imagery"
	"github.com/02loveslollipop/parkmap/services/api/providers/weather"
)

// Text shown in panel fields.
const (
	WeatherPendingText     = "Loading weather data..."
	WeatherFailureText     = "Could not load forecast data."
	ImageryPendingText     = "Loading imagery data..."
	ImageryUnavailableText = "No imagery found"
)

// FieldStatus is the state of one panel field.
type FieldStatus string

const (
	FieldPending     FieldStatus = "pending"
	FieldReady       FieldStatus = "ready"
	FieldError       FieldStatus = "error"
	FieldAvailable   FieldStatus = "available"
	FieldUnavailable FieldStatus = "unavailable"
)

// WeatherField is pending, ready with conditions, or error with a fixed message.
type WeatherField struct {
	Status     FieldStatus         `json:"status"`
	Conditions *weather.Conditions `json:"conditions,omitempty"`
	Message    string              `json:"message,omitempty"`
}

// ImageryField is pending, available with a scene, or unavailable.
// Provider failures are reported as unavailable.
type ImageryField struct {
	Status  FieldStatus    `json:"status"`
	Scene   *imagery.Scene `json:"scene,omitempty"`
	Message string         `json:"message,omitempty"`
}

// PanelContent is a snapshot of the detail panel. Open is false once the
// panel has been closed.
type PanelContent struct {
	Open       bool         `json:"open"`
	LocationID int          `json:"location_id"`
	Title      string       `json:"title,omitempty"`
	Token      uint64       `json:"token,omitempty"`
	Weather    WeatherField `json:"weather"`
	Imagery    ImageryField `json:"imagery"`
}

func pendingPanel(req DetailRequest, title string) *PanelContent {
	return &PanelContent{
		Open:       true,
		LocationID: req.LocationID,
		Title:      title,
		Token:      req.Token,
		Weather:    WeatherField{Status: FieldPending, Message: WeatherPendingText},
		Imagery:    ImageryField{Status: FieldPending, Message: ImageryPendingText},
	}
}

func weatherReady(c weather.Conditions) WeatherField {
	return WeatherField{Status: FieldReady, Conditions: &c}
}

func weatherFailed() WeatherField {
	return WeatherField{Status: FieldError, Message: WeatherFailureText}
}

func imageryFrom(res imagery.Result) ImageryField {
	if res.Available && res.Scene != nil {
		scene := *res.Scene
		return ImageryField{Status: FieldAvailable, Scene: &scene}
	}
	return ImageryField{Status: FieldUnavailable, Message: ImageryUnavailableText}
}
