// Package siftprom exports sift cache events as Prometheus counters.
package siftprom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bjaus/sift"
)

// Sink forwards cache events to a Prometheus counter vector partitioned by
// event kind. Wire it into a cache with sift.WithMetricsSink.
type Sink struct {
	events *prometheus.CounterVec
}

// New creates a Sink and registers its collector with reg. It panics if a
// collector with the same name is already registered.
func New(reg prometheus.Registerer) *Sink {
	s := &Sink{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_cache_events_total",
			Help: "Total number of cache events by kind",
		}, []string{"kind"}),
	}

	reg.MustRegister(s.events)

	return s
}

// Record implements sift.MetricsSink. The hashed key is dropped; Prometheus
// counters aggregate per kind only.
func (s *Sink) Record(kind sift.EventKind, _ uint64, delta uint64) {
	s.events.WithLabelValues(kind.String()).Add(float64(delta))
}

var _ sift.MetricsSink = (*Sink)(nil)
