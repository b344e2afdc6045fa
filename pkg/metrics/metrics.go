// Package metrics exposes Prometheus instrumentation for the
// simulation core.
package metrics

import (
	"net/http"
	"time"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quantframe/gbmsim/pkg/gbm"
)

// Metrics holds the simulation counters on a private registry so
// embedding applications can mount them wherever they expose metrics.
type Metrics struct {
	registry *prometheus.Registry
	logger   log.Logger

	simulations *prometheus.CounterVec
	paths       prometheus.Counter
	duration    *prometheus.HistogramVec
}

// New creates simulation metrics under the given namespace.
func New(namespace string, logger log.Logger) (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		logger:   logger,

		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Total simulations completed, by engine",
		}, []string{"engine"}),

		paths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paths_simulated_total",
			Help:      "Total price paths simulated",
		}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Wall time per simulation, by engine",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"engine"}),
	}

	for _, c := range []prometheus.Collector{m.simulations, m.paths, m.duration} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveSimulation implements gbm.Observer.
func (m *Metrics) ObserveSimulation(engine gbm.EngineKind, paths int, elapsed time.Duration) {
	name := engine.String()
	m.simulations.WithLabelValues(name).Inc()
	m.paths.Add(float64(paths))
	m.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics in Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ gbm.Observer = (*Metrics)(nil)
