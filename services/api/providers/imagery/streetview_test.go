package imagery

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("location"); got != "37.8,-119.5" {
			t.Errorf("location = %q", got)
		}
		if got := r.URL.Query().Get("radius"); got != "50" {
			t.Errorf("radius = %q", got)
		}
		w.Write([]byte(`{"status":"OK","pano_id":"abc123","date":"2019-06","location":{"lat":37.7999,"lng":-119.5}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	res, err := c.Lookup(context.Background(), 37.8, -119.5, 50)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !res.Available || res.Scene == nil {
		t.Fatalf("expected available result, got %+v", res)
	}
	if res.Scene.PanoID != "abc123" || res.Scene.Pitch != DefaultPitch {
		t.Errorf("unexpected scene %+v", res.Scene)
	}
	// the pano sits just south of the point, so the camera faces north
	if math.Abs(res.Scene.Heading) > 0.01 {
		t.Errorf("heading = %v, want ~0", res.Scene.Heading)
	}
}

func TestLookupUnavailable(t *testing.T) {
	for _, status := range []string{"ZERO_RESULTS", "NOT_FOUND"} {
		t.Run(status, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"` + status + `"}`))
			}))
			defer srv.Close()

			res, err := NewClient(srv.Client(), srv.URL, "k").Lookup(context.Background(), 1, 2, 50)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			if res.Available || res.Scene != nil || res.Status != status {
				t.Errorf("unexpected result %+v", res)
			}
		})
	}
}

func TestLookupFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.Client(), srv.URL, "").Lookup(context.Background(), 1, 2, 50); err == nil {
		t.Error("expected error")
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name                           string
		fromLat, fromLng, toLat, toLng float64
		want                           float64
	}{
		{"north", 0, 0, 1, 0, 0},
		{"east", 0, 0, 0, 1, 90},
		{"south", 1, 0, 0, 0, -180},
		{"west", 0, 1, 0, 0, -90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Heading(tt.fromLat, tt.fromLng, tt.toLat, tt.toLng)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Heading = %v, want %v", got, tt.want)
			}
		})
	}
}
