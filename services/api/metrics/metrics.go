package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FilterRecomputesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parkmap_filter_recomputes_total",
		Help: "Total number of visibility recomputations",
	})
	SelectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parkmap_selections_total",
		Help: "Total selections by origin (list, marker)",
	}, []string{"origin"})
	DetailFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parkmap_detail_fetch_total",
		Help: "Detail fetches by field and outcome",
	}, []string{"field", "outcome"})
	StaleResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parkmap_stale_results_total",
		Help: "Detail results discarded because a newer selection superseded them",
	}, []string{"field"})
	DetailFetchDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parkmap_detail_fetch_duration_ms",
		Help:    "Detail provider call duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	}, []string{"field"})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parkmap_sessions_active",
		Help: "Number of live map sessions",
	})
)

func init() {
	prometheus.MustRegister(FilterRecomputesTotal)
	prometheus.MustRegister(SelectionsTotal)
	prometheus.MustRegister(DetailFetchTotal)
	prometheus.MustRegister(StaleResultsTotal)
	prometheus.MustRegister(DetailFetchDurationMs)
	prometheus.MustRegister(SessionsActive)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
