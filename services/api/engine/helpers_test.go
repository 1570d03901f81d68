package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/02loveslollipop/parkmap/services/api/locations"
	"github.com/02loveslollipop/parkmap/services/api/providers/imagery"
	"github.com/02loveslollipop/parkmap/services/api/providers/weather"
)

// manualExecutor runs loop work inline and parks off-loop tasks until the
// test releases them, so fetch completions can be interleaved at will.
type manualExecutor struct {
	tasks []func()
}

func (m *manualExecutor) Post(fn func()) { fn() }

func (m *manualExecutor) Go(task func()) { m.tasks = append(m.tasks, task) }

func (m *manualExecutor) Do(ctx context.Context, fn func()) error {
	fn()
	return nil
}

func (m *manualExecutor) pending() int { return len(m.tasks) }

// run releases the i-th parked task.
func (m *manualExecutor) run(i int) {
	task := m.tasks[i]
	m.tasks = append(m.tasks[:i:i], m.tasks[i+1:]...)
	task()
}

func (m *manualExecutor) runAll() {
	for len(m.tasks) > 0 {
		m.run(0)
	}
}

type point struct{ lat, lng float64 }

type fakeWeather struct {
	mu    sync.Mutex
	calls []point
	fail  map[point]bool
}

func (f *fakeWeather) Current(ctx context.Context, lat, lng float64) (weather.Conditions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := point{lat, lng}
	f.calls = append(f.calls, p)
	if f.fail[p] {
		return weather.Conditions{}, errors.New("weather service unavailable")
	}
	return weather.Conditions{Temp: lat, TempMin: lat - 5, TempMax: lat + 5}, nil
}

func (f *fakeWeather) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeImagery struct {
	mu          sync.Mutex
	calls       []point
	radii       []int
	unavailable map[point]bool
	fail        map[point]bool
}

func (f *fakeImagery) Lookup(ctx context.Context, lat, lng float64, radiusM int) (imagery.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := point{lat, lng}
	f.calls = append(f.calls, p)
	f.radii = append(f.radii, radiusM)
	if f.fail[p] {
		return imagery.Result{}, errors.New("imagery service unavailable")
	}
	if f.unavailable[p] {
		return imagery.Result{Status: "ZERO_RESULTS"}, nil
	}
	return imagery.Result{
		Available: true,
		Status:    imagery.StatusOK,
		Scene:     &imagery.Scene{PanoID: "pano", Lat: lat, Lng: lng, Pitch: imagery.DefaultPitch},
	}, nil
}

func (f *fakeImagery) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var (
	yellowstone = point{44.6, -110.5}
	yosemite    = point{37.8, -119.5}
)

func parks() *locations.Store {
	return locations.NewStore([]locations.Location{
		{Title: "Yellowstone", Position: locations.LatLng{Lat: 44.6, Lng: -110.5}},
		{Title: "Yosemite", Position: locations.LatLng{Lat: 37.8, Lng: -119.5}},
	})
}

// harness is a session driven by a manualExecutor with every effect and
// panel snapshot recorded.
type harness struct {
	exec    *manualExecutor
	weather *fakeWeather
	imagery *fakeImagery
	session *Session
	effects []Effect
	panels  []PanelContent
}

func newHarness(store *locations.Store) *harness {
	h := &harness{
		exec:    &manualExecutor{},
		weather: &fakeWeather{fail: map[point]bool{}},
		imagery: &fakeImagery{unavailable: map[point]bool{}, fail: map[point]bool{}},
	}
	h.session = NewSession(context.Background(), "test", store, h.exec, Options{
		Weather: h.weather,
		Imagery: h.imagery,
		RadiusM: 50,
		Zoom:    7,
	})
	h.session.effects.Subscribe(func(e Effect) { h.effects = append(h.effects, e) })
	h.session.panels.Subscribe(func(p PanelContent) { h.panels = append(h.panels, p) })
	return h
}

func (h *harness) panel() PanelContent {
	p, _ := h.session.selection.Panel()
	return p
}

func (h *harness) kinds() []EffectKind {
	out := make([]EffectKind, 0, len(h.effects))
	for _, e := range h.effects {
		out = append(out, e.Kind)
	}
	return out
}
