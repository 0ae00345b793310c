// Package observability owns the Prometheus registry and the metrics the
// server records.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	syncFailures    *prometheus.CounterVec
	authFailures    *prometheus.CounterVec
}

// NewMetrics creates a private registry with Go and process collectors and
// the application metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookkeeper_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookkeeper_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		syncFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookkeeper_backref_sync_failures_total",
			Help: "Back-reference updates on the owner that failed after the book write succeeded",
		}, []string{"kind", "op"}),
		authFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookkeeper_auth_failures_total",
			Help: "Requests rejected by the authentication gate",
		}, []string{"reason"}),
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SyncFailed counts a back-reference write that did not go through.
func (m *Metrics) SyncFailed(kind, op string) {
	m.syncFailures.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) AuthFailed(reason string) {
	m.authFailures.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
