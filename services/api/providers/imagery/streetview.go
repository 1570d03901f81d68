// Package imagery checks panoramic imagery availability near a point using a
// Street View metadata compatible endpoint.
package imagery

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

// StatusOK is the provider status for a location with imagery.
const StatusOK = "OK"

// DefaultPitch is the camera pitch used when embedding the viewer.
const DefaultPitch = 30

// Scene describes the nearest panorama, oriented towards the requested point.
type Scene struct {
	PanoID  string  `json:"pano_id"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Heading float64 `json:"heading"`
	Pitch   float64 `json:"pitch"`
	Date    string  `json:"date,omitempty"`
}

// Result is Available with a Scene, or not available with the provider status.
type Result struct {
	Available bool   `json:"available"`
	Status    string `json:"status"`
	Scene     *Scene `json:"scene,omitempty"`
}

type metadataResponse struct {
	Status   string `json:"status"`
	PanoID   string `json:"pano_id"`
	Date     string `json:"date"`
	Location *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

// Client queries the metadata endpoint.
type Client struct {
	HTTP     *http.Client
	Endpoint string
	APIKey   string
}

// NewClient builds an imagery client.
func NewClient(httpClient *http.Client, endpoint, apiKey string) *Client {
	return &Client{HTTP: httpClient, Endpoint: endpoint, APIKey: apiKey}
}

// Lookup searches for a panorama within radiusM meters of the point.
func (c *Client) Lookup(ctx context.Context, lat, lng float64, radiusM int) (Result, error) {
	q := url.Values{}
	q.Set("location", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("radius", strconv.Itoa(radiusM))
	if c.APIKey != "" {
		q.Set("key", c.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, err
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request imagery metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var payload metadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("decode imagery metadata: %w", err)
	}

	if payload.Status != StatusOK || payload.Location == nil {
		return Result{Available: false, Status: payload.Status}, nil
	}

	return Result{
		Available: true,
		Status:    payload.Status,
		Scene: &Scene{
			PanoID:  payload.PanoID,
			Lat:     payload.Location.Lat,
			Lng:     payload.Location.Lng,
			Heading: Heading(payload.Location.Lat, payload.Location.Lng, lat, lng),
			Pitch:   DefaultPitch,
			Date:    payload.Date,
		},
	}, nil
}

// Heading returns the initial bearing in degrees from (fromLat, fromLng) to
// (toLat, toLng), normalized to [-180, 180).
func Heading(fromLat, fromLng, toLat, toLng float64) float64 {
	phi1 := fromLat * math.Pi / 180
	phi2 := toLat * math.Pi / 180
	dLambda := (toLng - fromLng) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	deg := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(math.Mod(deg+180, 360)+360, 360) - 180
}
