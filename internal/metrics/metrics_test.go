package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveScrape("example.com", "success", 1.2)
	m.ObserveScrape("example.com", "failed", 0.3)
	m.ObserveAI("complete", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrapesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrapesTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AIRequestsTotal.WithLabelValues("complete", "ok")))

	done := m.ScrapeStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrapesInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ScrapesInFlight))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveScrape("d", "success", 1)
		m.ObserveAI("embed", "error")
		m.ObserveHTTP("GET", "/health", "200", 0.01)
		m.ScrapeStarted()()
	})
}
