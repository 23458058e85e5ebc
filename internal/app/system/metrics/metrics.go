// internal/app/system/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agenseek"

// Metrics holds the service's Prometheus collectors. All methods are safe
// on a nil *Metrics so tests can pass nil.
//
//   - agenseek_http_requests_total{method,route,status}
//   - agenseek_http_request_duration_seconds{method,route}
//   - agenseek_dashboard_assembly_seconds
//   - agenseek_learningpath_guides_total{bucket}
//   - agenseek_activity_recorded_total{type}
//   - agenseek_store_errors_total{op}
//   - agenseek_platform_documents{counter}
type Metrics struct {
	reg *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	dashboard       prometheus.Histogram
	classified      *prometheus.CounterVec
	activity        *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	platform        *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dashboard: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_assembly_seconds",
			Help:      "Time to fetch and assemble one dashboard.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		classified: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "learningpath",
			Name:      "guides_total",
			Help:      "Guides placed into each learning-path bucket.",
		}, []string{"bucket"}),
		activity: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_recorded_total",
			Help:      "Activity log entries written, by type.",
		}, []string{"type"}),
		storeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed store operations, by operation.",
		}, []string{"op"}),
		platform: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "platform_documents",
			Help:      "Platform totals refreshed by the stats worker, by counter.",
		}, []string{"counter"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Instrument records request counts and latency labeled with the chi route
// pattern, so /guides/{guideID} stays a single series.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveDashboard records one dashboard assembly.
func (m *Metrics) ObserveDashboard(d time.Duration) {
	if m == nil {
		return
	}
	m.dashboard.Observe(d.Seconds())
}

// Classified adds n guides to bucket's counter.
func (m *Metrics) Classified(bucket string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.classified.WithLabelValues(bucket).Add(float64(n))
}

// ActivityRecorded counts one activity entry of type t.
func (m *Metrics) ActivityRecorded(t string) {
	if m == nil {
		return
	}
	m.activity.WithLabelValues(t).Inc()
}

// StoreError counts one failed store operation.
func (m *Metrics) StoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

// SetPlatform sets one platform total.
func (m *Metrics) SetPlatform(counter string, n int64) {
	if m == nil {
		return
	}
	m.platform.WithLabelValues(counter).Set(float64(n))
}
