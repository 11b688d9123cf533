package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	PlotSamples        prometheus.Histogram
	HistoryEntries     prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calc_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calc_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"method", "path"},
		),
		Evaluations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calc_evaluations_total",
				Help: "Expressions evaluated, by outcome",
			},
			[]string{"outcome"},
		),
		EvaluationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "calc_evaluation_duration_seconds",
				Help:    "Time to parse and evaluate one expression",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
		),
		PlotSamples: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "calc_plot_samples",
				Help:    "Samples evaluated per plot request",
				Buckets: prometheus.ExponentialBuckets(16, 4, 7),
			},
		),
		HistoryEntries: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "calc_history_entries",
				Help: "Entries currently in the history",
			},
		),
	}
}
