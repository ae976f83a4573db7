package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/deliberate/deliberate/internal/catalog"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	deliberations prometheus.Gauge
	version       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deliberate",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "deliberate",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		deliberations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "deliberate",
			Name:      "deliberations",
			Help:      "Deliberations in the archive.",
		}),
		version: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "deliberate",
			Name:      "catalog_version",
			Help:      "Number of committed catalog snapshots.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.deliberations, m.version)
	return m
}

// Track keeps the archive gauges current. The returned func stops tracking.
func (m *Metrics) Track(svc *catalog.Service) (cancel func()) {
	m.observe(svc.Snapshot())
	return svc.Subscribe(m.observe)
}

func (m *Metrics) observe(s catalog.Snapshot) {
	m.deliberations.Set(float64(len(s.Deliberations)))
	m.version.Set(float64(s.Version))
}

// Middleware records request counts and latency by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
