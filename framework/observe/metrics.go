package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/km-arc/go-sahara/framework/container"
)

// Metrics records resolutions as Prometheus series.
type Metrics struct {
	// ResolutionsTotal counts successful resolutions by key and phase.
	ResolutionsTotal *prometheus.CounterVec

	// ResolutionDuration measures resolution time by phase.
	ResolutionDuration *prometheus.HistogramVec
}

// NewMetrics registers the resolution series on reg under namespace. It
// panics if they are already registered there.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Total number of successful container resolutions",
			},
			[]string{"key", "phase"},
		),
		ResolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolution_duration_seconds",
				Help:      "Duration of container resolutions in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
	}
}

func (m *Metrics) Observe(e container.Event) {
	phase := string(e.Phase)
	m.ResolutionsTotal.WithLabelValues(e.Key, phase).Inc()
	m.ResolutionDuration.WithLabelValues(phase).Observe(e.Elapsed.Seconds())
}
