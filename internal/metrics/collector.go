// Package metrics exposes Prometheus instrumentation for upstream calls and
// the dashboard customer cache.
//
// Metrics:
//   - selva_upstream_requests_total: upstream calls by method and status code
//   - selva_upstream_request_duration_seconds: upstream latency by method
//   - selva_cache_lookups_total: cache lookups by cache name and result (hit|miss)
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "selva"

// Collector owns a registry and the metric vectors recorded by the app.
type Collector struct {
	registry *prometheus.Registry

	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry. If registry is nil a new one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		upstreamTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of calls made to the upstream API",
			},
			[]string{"method", "status"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Latency of calls made to the upstream API",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Total number of cache lookups by result",
			},
			[]string{"cache", "result"},
		),
	}

	registry.MustRegister(
		c.upstreamTotal,
		c.upstreamDuration,
		c.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveUpstream records one upstream call. A status of 0 means the call failed before a response arrived.
func (c *Collector) ObserveUpstream(method string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.upstreamTotal.WithLabelValues(method, label).Inc()
	c.upstreamDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// CacheHit records a hit on the named cache
func (c *Collector) CacheHit(cache string) {
	c.cacheLookups.WithLabelValues(cache, "hit").Inc()
}

// CacheMiss records a miss on the named cache
func (c *Collector) CacheMiss(cache string) {
	c.cacheLookups.WithLabelValues(cache, "miss").Inc()
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the registry in the exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
