// Package metrics exposes Prometheus instruments for route searches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Searches  *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	CacheHits prometheus.Counter
	Nodes     prometheus.Gauge
	Edges     prometheus.Gauge
}

// New registers the instruments with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "route_searches_total",
			Help: "Route searches by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "route_search_duration_seconds",
			Help:    "Time spent searching, cache hits excluded.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"algorithm"}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "route_cache_hits_total",
			Help: "Searches answered from the route cache.",
		}),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "road_network_cities",
			Help: "Cities in the current network snapshot.",
		}),
		Edges: f.NewGauge(prometheus.GaugeOpts{
			Name: "road_network_connections",
			Help: "Connections in the current network snapshot.",
		}),
	}
}

func (m *Metrics) ObserveSearch(algorithm, outcome string, elapsed time.Duration) {
	m.Searches.WithLabelValues(algorithm, outcome).Inc()
	m.Duration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
}

// CountSearch records an outcome without timing it.
func (m *Metrics) CountSearch(algorithm, outcome string) {
	m.Searches.WithLabelValues(algorithm, outcome).Inc()
}

func (m *Metrics) ObserveNetwork(nodes, edges int) {
	m.Nodes.Set(float64(nodes))
	m.Edges.Set(float64(edges))
}
