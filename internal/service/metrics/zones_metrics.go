package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ZonesLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zoneflow",
			Subsystem: "zones",
			Name:      "latency_seconds",
			Help:      "Latency of zones endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ZonesErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoneflow",
			Subsystem: "zones",
			Name:      "errors_total",
			Help:      "Errors by zones endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ZonesLatency, ZonesErrors)
	})
}
