// Package metrics exposes Prometheus instrumentation for checkouts.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checkout"

// Metrics holds the checkout collectors and the registry they live in
type Metrics struct {
	registry *prometheus.Registry

	Checkouts     *prometheus.CounterVec
	OrderTotal    prometheus.Histogram
	Duration      prometheus.Histogram
	BatchRequests prometheus.Histogram
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Checkout calculations by outcome.",
		}, []string{"outcome"}),
		OrderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total",
			Help:      "Final order total of successful checkouts.",
			Buckets:   []float64{10, 25, 50, 100, 200, 500, 1000, 5000},
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Time spent pricing a single request.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		BatchRequests: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of requests per batch call.",
			Buckets:   prometheus.LinearBuckets(1, 10, 10),
		}),
	}

	reg.MustRegister(
		m.Checkouts,
		m.OrderTotal,
		m.Duration,
		m.BatchRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveCheckout records one pricing attempt. outcome is "ok" or an
// error kind name.
func (m *Metrics) ObserveCheckout(outcome string, total float64, elapsed time.Duration) {
	m.Checkouts.WithLabelValues(outcome).Inc()
	m.Duration.Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.OrderTotal.Observe(total)
	}
}

// OutcomeOK labels successful checkouts
const OutcomeOK = "ok"

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
