package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/02loveslollipop/parkmap/services/api/locations"
	"github.com/02loveslollipop/parkmap/services/api/logger"
	"github.com/02loveslollipop/parkmap/services/api/metrics"
	"github.com/02loveslollipop/parkmap/services/api/providers/imagery"
	"github.com/02loveslollipop/parkmap/services/api/providers/weather"
)

// WeatherProvider looks up current conditions at a point.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lng float64) (weather.Conditions, error)
}

// ImageryProvider checks for panoramic imagery within radiusM meters of a point.
type ImageryProvider interface {
	Lookup(ctx context.Context, lat, lng float64, radiusM int) (imagery.Result, error)
}

// DetailAggregator issues the weather and imagery lookups for a selection
// concurrently. Each result is posted back to the session loop and applied
// only while its token is still the current one.
type DetailAggregator struct {
	ctx     context.Context
	exec    Executor
	weather WeatherProvider
	imagery ImageryProvider
	radiusM int
	log     *slog.Logger
}

// NewDetailAggregator wires the providers. ctx bounds every provider call and
// is cancelled only when the session itself goes away.
func NewDetailAggregator(ctx context.Context, exec Executor, w WeatherProvider, i ImageryProvider, radiusM int) *DetailAggregator {
	return &DetailAggregator{
		ctx:     ctx,
		exec:    exec,
		weather: w,
		imagery: i,
		radiusM: radiusM,
		log:     logger.L(),
	}
}

// Fetch implements Fetcher. Each provider is called exactly once.
func (a *DetailAggregator) Fetch(loc locations.Location, req DetailRequest, sink ResultSink) {
	lat, lng := loc.Position.Lat, loc.Position.Lng

	a.exec.Go(func() {
		start := time.Now()
		cond, err := a.weather.Current(a.ctx, lat, lng)
		metrics.DetailFetchDurationMs.WithLabelValues("weather").Observe(float64(time.Since(start).Milliseconds()))
		a.exec.Post(func() { a.deliverWeather(req, sink, cond, err) })
	})

	a.exec.Go(func() {
		start := time.Now()
		res, err := a.imagery.Lookup(a.ctx, lat, lng, a.radiusM)
		metrics.DetailFetchDurationMs.WithLabelValues("imagery").Observe(float64(time.Since(start).Milliseconds()))
		a.exec.Post(func() { a.deliverImagery(req, sink, res, err) })
	})
}

func (a *DetailAggregator) current(req DetailRequest, sink ResultSink, field string) bool {
	token, ok := sink.CurrentToken()
	if ok && token == req.Token {
		return true
	}
	metrics.StaleResultsTotal.WithLabelValues(field).Inc()
	a.log.Debug("stale_result_dropped", "field", field, "location_id", req.LocationID, "token", req.Token, "current", token)
	return false
}

func (a *DetailAggregator) deliverWeather(req DetailRequest, sink ResultSink, cond weather.Conditions, err error) {
	if err != nil {
		metrics.DetailFetchTotal.WithLabelValues("weather", "error").Inc()
	} else {
		metrics.DetailFetchTotal.WithLabelValues("weather", "ok").Inc()
	}
	if !a.current(req, sink, "weather") {
		return
	}
	if err != nil {
		a.log.Warn("weather_fetch_failed", "location_id", req.LocationID, "token", req.Token, "err", err)
		sink.applyWeather(req, weatherFailed())
		return
	}
	sink.applyWeather(req, weatherReady(cond))
}

func (a *DetailAggregator) deliverImagery(req DetailRequest, sink ResultSink, res imagery.Result, err error) {
	switch {
	case err != nil:
		metrics.DetailFetchTotal.WithLabelValues("imagery", "error").Inc()
	case res.Available:
		metrics.DetailFetchTotal.WithLabelValues("imagery", "available").Inc()
	default:
		metrics.DetailFetchTotal.WithLabelValues("imagery", "unavailable").Inc()
	}
	if !a.current(req, sink, "imagery") {
		return
	}
	if err != nil {
		// a failed lookup reads the same as no imagery
		a.log.Warn("imagery_fetch_failed", "location_id", req.LocationID, "token", req.Token, "err", err)
		sink.applyImagery(req, imageryFrom(imagery.Result{}))
		return
	}
	sink.applyImagery(req, imageryFrom(res))
}
