package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amykglen/biolink-explorer/pkg/observability"
)

const metricsNamespace = "biolink_explorer"

// Metrics bundles the server's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	buildsTotal     *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	cacheEvents     *prometheus.CounterVec
}

// NewMetrics creates a registry with Go runtime, process, and explorer
// collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method, and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		buildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "builds_total",
			Help:      "Hierarchy builds by outcome.",
		}, []string{"outcome"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "build_duration_seconds",
			Help:      "Time to parse a schema and build both hierarchies.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses, and writes by key type.",
		}, []string{"event", "key_type"}),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.buildsTotal, m.buildDuration, m.cacheEvents)
	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Register installs the metrics as observability hooks so pipeline and
// cache events show up without the pipeline importing Prometheus.
func (m *Metrics) Register() {
	observability.SetCacheHooks(&metricsCacheHooks{m})
	observability.SetPipelineHooks(&metricsPipelineHooks{m: m})
	observability.SetServerHooks(&metricsServerHooks{m})
}

type metricsCacheHooks struct{ m *Metrics }

func (h *metricsCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.m.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (h *metricsCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.m.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (h *metricsCacheHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.m.cacheEvents.WithLabelValues("set", keyType).Inc()
}

type metricsPipelineHooks struct {
	m *Metrics
	observability.NoopPipelineHooks
}

func (h *metricsPipelineHooks) OnBuildComplete(_ context.Context, _ string, _ int, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	h.m.buildsTotal.WithLabelValues(outcome).Inc()
	if err == nil {
		h.m.buildDuration.Observe(duration.Seconds())
	}
}

type metricsServerHooks struct{ m *Metrics }

func (h *metricsServerHooks) OnRequest(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	h.m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	h.m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
