// Package weather fetches current conditions from an OpenWeatherMap compatible API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Conditions are the current, minimum and maximum temperatures at a point.
type Conditions struct {
	Temp    float64 `json:"temp"`
	TempMin float64 `json:"temp_min"`
	TempMax float64 `json:"temp_max"`
}

type currentResponse struct {
	Main *Conditions `json:"main"`
}

// Client calls the /weather endpoint. It never retries and never caches.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	Units   string
}

// NewClient builds a weather client.
func NewClient(httpClient *http.Client, baseURL, apiKey, units string) *Client {
	return &Client{HTTP: httpClient, BaseURL: baseURL, APIKey: apiKey, Units: units}
}

// Current retrieves current conditions for the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lng float64) (Conditions, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	if c.Units != "" {
		q.Set("units", c.Units)
	}
	if c.APIKey != "" {
		q.Set("appid", c.APIKey)
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Conditions{}, err
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("request weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Conditions{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var payload currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Conditions{}, fmt.Errorf("decode weather: %w", err)
	}
	if payload.Main == nil {
		return Conditions{}, fmt.Errorf("decode weather: missing main block")
	}

	return *payload.Main, nil
}
