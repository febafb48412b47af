// Package metrics exposes Prometheus metrics for distortviz and implements
// the observability hooks on top of them.
//
//	reg := metrics.NewRegistry()
//	reg.Install()                        // route observability hooks here
//	http.Handle("/metrics", reg.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/distortviz/pkg/observability"
)

// Registry holds every distortviz metric on a private Prometheus registry.
type Registry struct {
	// Web API
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Distortion service
	ServiceRequestsTotal   *prometheus.CounterVec
	ServiceRequestDuration *prometheus.HistogramVec
	ServiceErrorsTotal     *prometheus.CounterVec

	// Views
	GraphLoadsTotal     *prometheus.CounterVec
	GraphNodes          *prometheus.GaugeVec
	LayoutTicks         *prometheus.HistogramVec
	LayoutDuration      *prometheus.HistogramVec
	DistortionRunsTotal *prometheus.CounterVec

	// Cache
	CacheOperationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(r.registry)

	r.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distortviz_http_requests_total",
			Help: "Total number of web API requests",
		},
		[]string{"method", "route", "status"},
	)
	r.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "distortviz_http_request_duration_seconds",
			Help:    "Web API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.ServiceRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distortviz_service_requests_total",
			Help: "Requests sent to the distortion service",
		},
		[]string{"host", "status"},
	)
	r.ServiceRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "distortviz_service_request_duration_seconds",
			Help:    "Distortion service latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"host"},
	)
	r.ServiceErrorsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distortviz_service_errors_total",
			Help: "Distortion service calls that failed before a response",
		},
		[]string{"host"},
	)

	r.GraphLoadsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distortviz_graph_loads_total",
			Help: "Edge-list loads by slot and result",
		},
		[]string{"slot", "result"}, // ok, error
	)
	r.GraphNodes = f.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "distortviz_graph_nodes",
			Help: "Node count of the most recently loaded graph per slot",
		},
		[]string{"slot"},
	)
	r.LayoutTicks = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "distortviz_layout_ticks",
			Help:    "Ticks needed for a layout to settle",
			Buckets: []float64{10, 50, 100, 200, 300, 500, 1000},
		},
		[]string{"slot"},
	)
	r.LayoutDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "distortviz_layout_duration_seconds",
			Help:    "Wall time of a layout run",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"slot"},
	)
	r.DistortionRunsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distortviz_distortion_runs_total",
			Help: "Distortion runs by outcome",
		},
		[]string{"outcome"}, // redraw, recolor, stale, error
	)

	r.CacheOperationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distortviz_cache_operations_total",
			Help: "Cache lookups and writes",
		},
		[]string{"kind", "op"}, // op: hit, miss, set
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordHTTPRequest records a web API request.
func (r *Registry) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Install registers the registry as the global observability backend.
func (r *Registry) Install() {
	observability.SetViewHooks(viewHooks{r})
	observability.SetCacheHooks(cacheHooks{r})
	observability.SetHTTPHooks(httpHooks{r})
}
