// Package metrics implements the observability hooks with Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cacaonk0027/neekuro/pkg/observability"
)

const namespace = "neekuro"

// Metrics collects render, outgoing HTTP and server request metrics on its
// own registry. It implements both [observability.RenderHooks] and
// [observability.HTTPHooks].
type Metrics struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	renderBytes    prometheus.Histogram
	loads          *prometheus.CounterVec
	loadDuration   *prometheus.HistogramVec

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec

	serverRequests *prometheus.CounterVec
	serverDuration *prometheus.HistogramVec

	hosts map[string]bool
}

var (
	_ observability.RenderHooks = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)

// otherHost labels outgoing requests to hosts New was not told about.
const otherHost = "other"

// New creates the metrics on a fresh registry that also carries the Go
// runtime and process collectors. Outgoing requests keep their host label
// only for the given hosts; image URLs come from clients, so every other
// host is counted as "other".
func New(hosts ...string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	known := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		known[h] = true
	}

	return &Metrics{
		registry: reg,
		hosts:    known,
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Welcome images rendered, by format and result",
		}, []string{"format", "result"}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to load, draw and encode one welcome image",
			Buckets:   prometheus.DefBuckets,
		}),
		renderBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_output_bytes",
			Help:      "Encoded size of rendered welcome images",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 8),
		}),
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_loads_total",
			Help:      "Avatar and background loads, by kind, source and result",
		}, []string{"kind", "source", "result"}),
		loadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_load_duration_seconds",
			Help:      "Time to fetch and decode one image",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		upstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outgoing HTTP responses, by host and status code",
		}, []string{"host", "code"}),
		upstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outgoing HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		upstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Outgoing HTTP requests that got no response",
		}, []string{"host"}),
		serverRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served, by route and status code",
		}, []string{"route", "code"}),
		serverDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request handling latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Register installs m as the process-wide render and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetRenderHooks(m)
	observability.SetHTTPHooks(m)
}

// ObserveRequest records one request handled by the server.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	m.serverRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.serverDuration.WithLabelValues(route).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnRenderStart implements observability.RenderHooks.
func (m *Metrics) OnRenderStart(context.Context, int, int) {}

// OnLoad implements observability.RenderHooks.
func (m *Metrics) OnLoad(_ context.Context, kind, source string, d time.Duration, err error) {
	m.loads.WithLabelValues(kind, source, result(err)).Inc()
	m.loadDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// OnRenderComplete implements observability.RenderHooks.
func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.renders.WithLabelValues(format, result(err)).Inc()
	m.renderDuration.Observe(d.Seconds())
	if err == nil {
		m.renderBytes.Observe(float64(size))
	}
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) hostLabel(host string) string {
	if m.hosts[host] {
		return host
	}
	return otherHost
}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	host = m.hostLabel(host)
	m.upstreamRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.upstreamDuration.WithLabelValues(host).Observe(d.Seconds())
}

// OnError implements observability.HTTPHooks.
func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.upstreamErrors.WithLabelValues(m.hostLabel(host)).Inc()
}
