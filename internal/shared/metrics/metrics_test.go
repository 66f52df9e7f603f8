package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// createTestMetrics creates metrics with a custom registry for testing.
// This avoids conflicts with the default registry.
func createTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "test", Subsystem: "http", Name: "requests_total"},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: "test", Subsystem: "http", Name: "request_duration_seconds"},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: "test", Subsystem: "http", Name: "requests_in_flight"},
		),
		RendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "test", Subsystem: "render", Name: "reports_total"},
			[]string{"format", "status"},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: "test", Subsystem: "render", Name: "duration_seconds"},
			[]string{"format"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: "test", Subsystem: "cache", Name: "hits_total"},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: "test", Subsystem: "cache", Name: "misses_total"},
		),
		CacheEvictionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: "test", Subsystem: "cache", Name: "evictions_total"},
		),
		CacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: "test", Subsystem: "cache", Name: "entries"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration, m.HTTPRequestsInFlight,
		m.RendersTotal, m.RenderDuration,
		m.CacheHitsTotal, m.CacheMissesTotal, m.CacheEvictionsTotal, m.CacheEntries,
	)

	return m
}

func TestRecordHTTPRequest(t *testing.T) {
	m := createTestMetrics()

	m.RecordHTTPRequest("PUT", "/api/report/run", 200, 50*time.Millisecond)
	m.RecordHTTPRequest("PUT", "/api/report/run", 200, 70*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/report/run", 404, 5*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("PUT", "/api/report/run", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/report/run", "404")))
}

func TestRecordRender(t *testing.T) {
	m := createTestMetrics()

	m.RecordRender("pdf", "ok", time.Second)
	m.RecordRender("pdf", "generation_error", time.Second)
	m.RecordRender("xlsx", "ok", time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RendersTotal.WithLabelValues("pdf", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RendersTotal.WithLabelValues("pdf", "generation_error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RendersTotal.WithLabelValues("xlsx", "ok")))
}

func TestCacheCounters(t *testing.T) {
	m := createTestMetrics()

	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordEvictions(3)
	m.SetCacheEntries(7)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheMissesTotal))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.CacheEvictionsTotal))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.CacheEntries))
}
