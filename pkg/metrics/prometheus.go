package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	zonesDetected *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	runSamples    *prometheus.HistogramVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		zonesDetected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zoneflow_zones_detected_total",
				Help: "Total zones detected by strategy and zone type",
			},
			[]string{"strategy", "zone_type"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zoneflow_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		runSamples: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zoneflow_run_samples",
				Help:    "Sample count per detection run",
				Buckets: prometheus.ExponentialBuckets(64, 2, 10),
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zoneflow_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordZones records detected zones for a strategy and zone type.
func (r *Recorder) RecordZones(strategy, ztype string, n int) {
	r.zonesDetected.WithLabelValues(strategy, ztype).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRunSamples records the sample count of a detection run.
func (r *Recorder) RecordRunSamples(symbol string, n int) {
	r.runSamples.WithLabelValues(symbol).Observe(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
