package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusHooks implements every hook interface with Prometheus metrics
// registered on a private registry.
type PrometheusHooks struct {
	registry *prometheus.Registry

	LayoutsTotal   *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec
	LayoutNodes    prometheus.Histogram

	CacheHits     *prometheus.CounterVec
	CacheMisses   *prometheus.CounterVec
	CacheSetBytes *prometheus.CounterVec

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPErrorsTotal      *prometheus.CounterVec
}

// NewPrometheusHooks creates hooks with their own registry, including the
// Go runtime and process collectors.
func NewPrometheusHooks() *PrometheusHooks {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &PrometheusHooks{
		registry: reg,

		LayoutsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_layouts_total",
				Help: "Total number of computed layouts",
			},
			[]string{"algorithm", "status"},
		),
		LayoutDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_layout_duration_seconds",
				Help:    "Layout computation time in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"algorithm"},
		),
		LayoutNodes: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arbor_layout_nodes",
				Help:    "Number of nodes per computed layout",
				Buckets: prometheus.ExponentialBuckets(1, 10, 7),
			},
		),

		CacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"type"},
		),
		CacheMisses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"type"},
		),
		CacheSetBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_cache_set_bytes_total",
				Help: "Total bytes written to the cache",
			},
			[]string{"type"},
		),

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "arbor_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),
		HTTPErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_http_errors_total",
				Help: "Total number of HTTP requests answered with an error",
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the underlying Prometheus registry.
func (p *PrometheusHooks) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusHooks) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *PrometheusHooks) OnLayoutStart(context.Context, string, int) {}

func (p *PrometheusHooks) OnLayoutComplete(_ context.Context, algorithm string, nodeCount int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.LayoutsTotal.WithLabelValues(algorithm, status).Inc()
	if err == nil {
		p.LayoutDuration.WithLabelValues(algorithm).Observe(d.Seconds())
		p.LayoutNodes.Observe(float64(nodeCount))
	}
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.CacheHits.WithLabelValues(keyType).Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheMisses.WithLabelValues(keyType).Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheSetBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {
	p.HTTPRequestsInFlight.Inc()
}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.HTTPRequestsInFlight.Dec()
	p.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	p.HTTPErrorsTotal.WithLabelValues(method, route).Inc()
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
