package locations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Source is a one-shot reader of the static location list.
type Source interface {
	Load(ctx context.Context) ([]Location, error)
}

// LoadError means the location list could not be read. It is fatal to the session.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load locations from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ErrNoLocations is returned when a source yields an empty list.
var ErrNoLocations = errors.New("location list is empty")

// Load reads src once and builds the Store.
func Load(ctx context.Context, name string, src Source) (*Store, error) {
	locs, err := src.Load(ctx)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}
	if len(locs) == 0 {
		return nil, &LoadError{Source: name, Err: ErrNoLocations}
	}
	return NewStore(locs), nil
}

// FileSource reads a JSON array of locations from disk.
type FileSource struct {
	Path string
}

// Load implements Source.
func (f FileSource) Load(ctx context.Context) ([]Location, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Decode(file)
}

// URLSource fetches a JSON array of locations with a GET request.
type URLSource struct {
	Client *http.Client
	URL    string
}

// Load implements Source.
func (u URLSource) Load(ctx context.Context) ([]Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return nil, err
	}

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request locations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return Decode(resp.Body)
}

// Decode parses the location file format: [{"title": ..., "location": {"lat": .., "lng": ..}}].
func Decode(r io.Reader) ([]Location, error) {
	var locs []Location
	if err := json.NewDecoder(r).Decode(&locs); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return locs, nil
}
