package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts prediction runs by outcome.
type Metrics struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	rows     prometheus.Histogram
}

// NewMetrics registers the run metrics with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argo_forecast",
			Name:      "runs_total",
			Help:      "Prediction runs by outcome. The outcome is ok or the error code name.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "argo_forecast",
			Name:      "run_duration_seconds",
			Help:      "Duration of prediction runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "argo_forecast",
			Name:      "predicted_rows",
			Help:      "Rows predicted per successful run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	registerer.MustRegister(m.runs, m.duration, m.rows)

	return m
}

func (m *Metrics) observe(outcome string, seconds float64) {
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(seconds)
}
