package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the executor's Prometheus collectors.
type Metrics struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	steps      *prometheus.HistogramVec
	cacheHits  *prometheus.CounterVec
	shared     *prometheus.CounterVec
}

// NewMetrics registers the executor metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		executions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsa_executions_total",
			Help: "Algorithm executions by algorithm and outcome",
		}, []string{"algorithm", "status"}),

		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dsa_execution_duration_seconds",
			Help:    "Time to record one algorithm run",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"algorithm"}),

		steps: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dsa_steps_per_run",
			Help:    "Number of steps recorded per successful run",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"algorithm"}),

		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsa_cache_hits_total",
			Help: "Runs served from the archive instead of re-executed",
		}, []string{"algorithm"}),

		shared: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsa_shared_executions_total",
			Help: "Requests that joined an identical in-flight execution",
		}, []string{"algorithm"}),
	}
}
