package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latency per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP server metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests processed, partitioned by method, route, and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})
	reg.MustRegister(requests, duration, inflight)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
		inflight: inflight,
	}
}

// ObserveRequest records one completed request.
func (m *HTTPMetrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncInFlight marks a request as started.
func (m *HTTPMetrics) IncInFlight() {
	if m == nil || m.inflight == nil {
		return
	}
	m.inflight.Inc()
}

// DecInFlight marks a request as finished.
func (m *HTTPMetrics) DecInFlight() {
	if m == nil || m.inflight == nil {
		return
	}
	m.inflight.Dec()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
