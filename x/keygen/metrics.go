package keygen

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/keymint/keymint/pkg/metrics"
)

// Metrics holds key generation metrics
type Metrics struct {
	registry *metrics.ComponentRegistry

	KeysGeneratedTotal prometheus.Counter
	GenerationDuration prometheus.Histogram
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics creates keygen metrics
func NewMetrics() *Metrics {
	reg := metrics.NewComponentRegistry("keymint", "keygen")

	return &Metrics{
		registry: reg,

		KeysGeneratedTotal: reg.NewCounter(prometheus.CounterOpts{
			Name: "keys_generated_total",
			Help: "Total number of key pairs generated",
		}),

		GenerationDuration: reg.NewHistogram(prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Duration of a single key pair derivation",
			Buckets: metrics.DurationBuckets,
		}),

		ErrorsTotal: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of generation errors by type",
		}, []string{"type"}),
	}
}

// RecordGenerated records a successfully generated key pair
func (m *Metrics) RecordGenerated() {
	m.KeysGeneratedTotal.Inc()
}

// RecordDuration records the duration of one derivation
func (m *Metrics) RecordDuration(d time.Duration) {
	m.GenerationDuration.Observe(d.Seconds())
}

// RecordError records a generation error
func (m *Metrics) RecordError(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
