// Package metrics provides Prometheus metrics collection for confscope.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements ports.ResolverMetrics with Prometheus counters.
// Counters only: the resolver does not observe store call timing.
type Collector struct {
	ResolvesTotal *prometheus.CounterVec
}

// New creates a collector registered on the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered on a custom registry.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		ResolvesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "confscope",
				Name:      "resolves_total",
				Help:      "Total configuration resolutions by schema, scope kind and outcome",
			},
			[]string{"schema", "scope", "outcome"},
		),
	}
}

// ObserveResolve counts one resolution.
func (c *Collector) ObserveResolve(schema, kind, outcome string) {
	c.ResolvesTotal.WithLabelValues(schema, kind, outcome).Inc()
}
