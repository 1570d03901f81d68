package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/02loveslollipop/parkmap/services/watcher/internal/models"
)

// FetchLocations retrieves the location feed over HTTP.
func FetchLocations(ctx context.Context, client *http.Client, url string) ([]models.FeedLocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request location feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return decode(resp.Body)
}

// ReadLocations reads the location feed from a local file.
func ReadLocations(path string) ([]models.FeedLocation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) ([]models.FeedLocation, error) {
	var payload []models.FeedLocation
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}
