// Package metrics provides Prometheus metrics for the Phronisis API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Content Metrics
	catalogReloads prometheus.Counter

	// Analytics Metrics
	eventsLogged *prometheus.CounterVec
}

func NewManager() *Manager {
	m := &Manager{
		namespace: "phronisis",
		registry:  prometheus.NewRegistry(),
	}

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by path, method and status code",
		},
		[]string{"path", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	m.catalogReloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "catalog_reloads_total",
		Help:      "Total number of perspective catalog reloads",
	})

	m.eventsLogged = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "events_logged_total",
			Help:      "Total number of analytics events logged by type",
		},
		[]string{"type"},
	)

	return m
}

// Handler serves the registered metrics, for mounting on the debug mux.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) RecordHTTPRequest(path, method string, statusCode int, duration time.Duration) {
	m.httpRequests.WithLabelValues(path, method, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(path, method).Observe(float64(duration.Milliseconds()))
}

func (m *Manager) RecordCatalogReload() {
	m.catalogReloads.Inc()
}

func (m *Manager) RecordEventLogged(eventType string) {
	m.eventsLogged.WithLabelValues(eventType).Inc()
}
