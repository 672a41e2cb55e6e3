package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSearch("astar", "ok", time.Millisecond)
	m.ObserveSearch("astar", "ok", time.Millisecond)
	m.ObserveSearch("greedy", "no_path", time.Millisecond)
	m.CacheHits.Inc()
	m.ObserveNetwork(12, 20)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Searches.WithLabelValues("astar", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("greedy", "no_path")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.Nodes))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.Edges))
}
