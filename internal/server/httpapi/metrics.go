package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the backend's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AuthFailures        *prometheus.CounterVec
	SignIns             *prometheus.CounterVec
	RateLimitRejections prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophadmin_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gophadmin_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophadmin_auth_failures_total",
			Help: "Rejected bearer tokens by reason.",
		}, []string{"reason"}),
		SignIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophadmin_signins_total",
			Help: "Sign-in attempts by outcome.",
		}, []string{"outcome"}),
		RateLimitRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophadmin_rate_limit_rejections_total",
			Help: "Sign-in requests rejected by the rate limiter.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthFailures,
		m.SignIns,
		m.RateLimitRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
