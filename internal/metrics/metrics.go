// Package metrics holds the Prometheus collectors of the contact directory.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Photo removal outcomes.
const (
	PhotoRemoved = "removed"
	PhotoMissing = "missing"
	PhotoFailed  = "error"
)

// Metrics groups the collectors updated by the contact service.
type Metrics struct {
	mutations         *prometheus.CounterVec
	mutationDuration  *prometheus.HistogramVec
	projectionSize    prometheus.Gauge
	projectionVersion prometheus.Gauge
	subscribers       prometheus.Gauge
	photoRemovals     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_mutations_total",
			Help: "Contact mutations processed, by operation and result.",
		}, []string{"op", "result"}),

		mutationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contacts_mutation_duration_seconds",
			Help:    "Time to apply a contact mutation and refresh the live list.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"op"}),

		projectionSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contacts_projection_size",
			Help: "Number of contacts in the current live list.",
		}),

		projectionVersion: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contacts_projection_version",
			Help: "Version of the current live list.",
		}),

		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contacts_feed_subscribers",
			Help: "Active subscribers of the live list.",
		}),

		photoRemovals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_photo_removals_total",
			Help: "Photo file removals attempted on contact delete, by result.",
		}, []string{"result"}),
	}
}

// ObserveMutation records one mutation that started at start.
func (m *Metrics) ObserveMutation(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mutations.WithLabelValues(op, result).Inc()
	m.mutationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// SetProjection records the version and size of the published live list.
func (m *Metrics) SetProjection(version uint64, size int) {
	if m == nil {
		return
	}
	m.projectionVersion.Set(float64(version))
	m.projectionSize.Set(float64(size))
}

// SubscriberAdded counts a new live list subscriber.
func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

// SubscriberRemoved counts a closed live list subscriber.
func (m *Metrics) SubscriberRemoved() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}

// PhotoRemoval records the outcome of a photo file removal.
func (m *Metrics) PhotoRemoval(result string) {
	if m == nil {
		return
	}
	m.photoRemovals.WithLabelValues(result).Inc()
}
