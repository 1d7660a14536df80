// Package metrics exposes the console's Prometheus metrics on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "console"

// Outcome labels for backend calls.
const (
	OutcomeSuccess   = "success"
	OutcomeHTTPError = "http_error"
	OutcomeTransport = "transport_error"
	OutcomeCanceled  = "canceled"
)

// Registry owns every console metric.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Registry struct {
	registry *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	pageRequests    *prometheus.CounterVec
	pageDuration    *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
	alertsRaised    *prometheus.CounterVec
}

// NewRegistry creates the registry with Go runtime and process collectors attached.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Calls made to the warehouse backend.",
		},
		[]string{"resource", "method", "outcome"},
	)
	r.backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls to the warehouse backend.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"resource", "method"},
	)
	r.pageRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests served by the console.",
		},
		[]string{"route", "method", "status"},
	)
	r.pageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving console requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	r.activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Console sessions currently held in memory.",
	})
	r.alertsRaised = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Blocking alerts raised to operators after a failed mutation.",
		},
		[]string{"view"},
	)

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.backendRequests,
		r.backendDuration,
		r.pageRequests,
		r.pageDuration,
		r.activeSessions,
		r.alertsRaised,
	)
	return r
}

// ObserveBackendCall records one call to the warehouse backend.
func (r *Registry) ObserveBackendCall(resource, method, outcome string, d time.Duration) {
	r.backendRequests.WithLabelValues(resource, method, outcome).Inc()
	r.backendDuration.WithLabelValues(resource, method).Observe(d.Seconds())
}

// SetActiveSessions reports the current session count.
func (r *Registry) SetActiveSessions(n int) {
	r.activeSessions.Set(float64(n))
}

// AlertRaised counts an alert shown on view.
func (r *Registry) AlertRaised(view string) {
	r.alertsRaised.WithLabelValues(view).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// GinMiddleware records count and latency of console requests by route template.
func (r *Registry) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.pageRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		r.pageDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
