// Package metrics holds the Prometheus collectors used across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "geospy"

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ScrapesTotal        *prometheus.CounterVec
	ScrapeDuration      *prometheus.HistogramVec
	ScrapesInFlight     prometheus.Gauge
	AIRequestsTotal     *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ScrapesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Total number of page scrapes by outcome.",
		}, []string{"status"}),
		ScrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Duration of page scrapes.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"domain"}),
		ScrapesInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scrapes_in_flight",
			Help:      "Number of page fetches currently running.",
		}),
		AIRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Total number of generative AI calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// ObserveScrape records one finished fetch.
func (m *Metrics) ObserveScrape(domain, status string, seconds float64) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(status).Inc()
	m.ScrapeDuration.WithLabelValues(domain).Observe(seconds)
}

// ScrapeStarted increments the in-flight gauge and returns the matching decrement.
func (m *Metrics) ScrapeStarted() func() {
	if m == nil {
		return func() {}
	}
	m.ScrapesInFlight.Inc()
	return m.ScrapesInFlight.Dec
}

// ObserveAI records one call to the completion or embedding service.
func (m *Metrics) ObserveAI(operation, outcome string) {
	if m == nil {
		return
	}
	m.AIRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}
