// Package metrics exposes Prometheus collectors for upstream calls, HTTP
// requests and the star-status cache. Each Metrics value owns its registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/stargazer/pkg/errors"
	"github.com/agentstation/stargazer/pkg/starcache"
)

const namespace = "stargazer"

// OutcomeOK labels a successful upstream call.
const OutcomeOK = "ok"

// Metrics holds the collectors.
type Metrics struct {
	registry *prometheus.Registry

	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates and registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "calls_total",
				Help:      "Upstream API calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "call_duration_seconds",
				Help:      "Upstream API call latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(m.upstreamCalls, m.upstreamDuration, m.httpRequests, m.httpDuration)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveUpstream records one upstream call. A nil err is recorded as ok,
// anything else under its error kind.
func (m *Metrics) ObserveUpstream(operation string, err error, d time.Duration) {
	outcome := OutcomeOK
	if err != nil {
		outcome = errors.KindOf(err).String()
	}
	m.upstreamCalls.WithLabelValues(operation, outcome).Inc()
	m.upstreamDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RegisterCache exposes the counters of a star-status cache. It must be
// called at most once per Metrics.
func (m *Metrics) RegisterCache(stats func() starcache.Stats) {
	counter := func(name, help string, read func(starcache.Stats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "star_cache",
				Name:      name,
				Help:      help,
			},
			func() float64 { return float64(read(stats())) },
		)
	}

	m.registry.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "star_cache",
				Name:      "entries",
				Help:      "Entries currently held by the star-status cache",
			},
			func() float64 { return float64(stats().Entries) },
		),
		counter("hits_total", "Star-status cache hits", func(s starcache.Stats) uint64 { return s.Hits }),
		counter("misses_total", "Star-status cache misses", func(s starcache.Stats) uint64 { return s.Misses }),
		counter("expirations_total", "Star-status entries dropped on expiry", func(s starcache.Stats) uint64 { return s.Expirations }),
		counter("evictions_total", "Star-status entries evicted for capacity", func(s starcache.Stats) uint64 { return s.Evictions }),
	)
}
