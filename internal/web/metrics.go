package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus instrumentation. Each Server owns
// its registry so tests can build servers without collector collisions.
type metrics struct {
	registry *prometheus.Registry

	uploads  *prometheus.CounterVec
	filters  prometheus.Counter
	exports  prometheus.Counter
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bankdash_uploads_total",
			Help: "CSV uploads by outcome (ok, empty, parse_error).",
		}, []string{"outcome"}),
		filters: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankdash_filter_applications_total",
			Help: "Accepted filter updates.",
		}),
		exports: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankdash_exports_total",
			Help: "Filtered CSV downloads.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bankdash_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// handler serves the scrape endpoint for this server's registry.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument records request latency labeled by chi route pattern, so
// /api/session/{sessionID}/metrics stays one series regardless of ID.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		m.duration.WithLabelValues(
			r.Method,
			route,
			strconv.Itoa(ww.Status()),
		).Observe(time.Since(start).Seconds())
	})
}
