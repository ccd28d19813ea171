// Package metrics exposes Prometheus instrumentation for the dashboard host.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// Metrics holds all dashboard host collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	SessionsActive    prometheus.Gauge
	SessionsCreated   prometheus.Counter
	SessionsEnded     *prometheus.CounterVec
	ConfigureAttempts *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
}

// New registers every collector on a fresh registry, so tests can build as many
// instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live dashboard sessions",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created and bootstrapped",
		}),
		SessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Sessions removed, by reason",
		}, []string{"reason"}),
		ConfigureAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presentation_configure_total",
			Help:      "Presentation configuration attempts, by result",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method and status",
		}, []string{"method", "status"}),
	}
	reg.MustRegister(
		m.SessionsActive,
		m.SessionsCreated,
		m.SessionsEnded,
		m.ConfigureAttempts,
		m.HTTPRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns the /metrics exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionCreated() {
	m.SessionsCreated.Inc()
	m.SessionsActive.Inc()
}

// SessionEnded records a removal. reason is "ended", "expired" or "order_violation".
func (m *Metrics) SessionEnded(reason string) {
	m.SessionsEnded.WithLabelValues(reason).Inc()
	m.SessionsActive.Dec()
}

// ConfigureResult records the outcome of a ConfigurePresentation call.
func (m *Metrics) ConfigureResult(result string) {
	m.ConfigureAttempts.WithLabelValues(result).Inc()
}

// Middleware counts requests by method and response status.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
