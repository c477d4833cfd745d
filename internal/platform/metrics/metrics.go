package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RecordsCreated     *prometheus.CounterVec
	JobTransitions     *prometheus.CounterVec
	DetailReadDuration *prometheus.HistogramVec
	ExportReceipts     prometheus.Counter
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics on a caller-supplied registerer, which keeps
// tests from colliding on the default registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pantheon_records_created_total",
			Help: "Total entity records created, labeled by kind.",
		}, []string{"kind"}),
		JobTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pantheon_job_transitions_total",
			Help: "Total job status transitions, labeled by resulting status.",
		}, []string{"status"}),
		DetailReadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pantheon_detail_read_duration_seconds",
			Help:    "Latency of denormalized detail reads, labeled by entity kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		ExportReceipts: factory.NewCounter(prometheus.CounterOpts{
			Name: "pantheon_export_receipts_total",
			Help: "Total volunteer export receipts recorded.",
		}),
	}
}

// RecordCreated increments the created counter for an entity kind.
func (m *Metrics) RecordCreated(kind string) {
	m.RecordsCreated.WithLabelValues(kind).Inc()
}

// RecordJobTransition increments the transition counter for a status.
func (m *Metrics) RecordJobTransition(status string) {
	m.JobTransitions.WithLabelValues(status).Inc()
}

// ObserveDetailRead records the latency of a detail read.
func (m *Metrics) ObserveDetailRead(kind string, start time.Time) {
	m.DetailReadDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
