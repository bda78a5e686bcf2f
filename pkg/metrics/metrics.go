// Package metrics holds the Prometheus collectors of the inventory API and
// the middleware that feeds the HTTP ones. Collectors live in their own
// registry, served by Handler on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

var httpLabels = []string{"method", "path", "status"}

// HTTP.
var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time spent serving API requests.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, httpLabels)

	RequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "API requests by route pattern and status.",
	}, httpLabels)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "API requests currently being served.",
	})

	ResponseSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "Size of response bodies.",
		Buckets:   prometheus.ExponentialBuckets(128, 4, 7),
	}, []string{"method", "path"})
)

// Storage and domain.
var (
	// DBQueryDuration is labelled by gorm callback: select, insert, update, delete, raw.
	DBQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "Time spent in database statements.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
	}, []string{"operation"})

	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Stats cache lookups by driver and result (hit or miss).",
	}, []string{"driver", "result"})

	StatsComputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "stats",
		Name:      "compute_duration_seconds",
		Help:      "Time spent aggregating store statistics on a cache miss.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
	})

	DomainEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "dispatched_total",
		Help:      "Store and product events dispatched.",
	}, []string{"event"})
)

// Registry is the registry served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		ResponseSize,
		DBQueryDuration,
		CacheLookups,
		StatsComputeDuration,
		DomainEvents,
	)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Middleware observes every request. The path label is the matched chi
// pattern (/api/v1/stores/{id}), or "unmatched" for 404s.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			path := routePattern(r)
			labels := prometheus.Labels{"method": r.Method, "path": path, "status": strconv.Itoa(sw.status)}
			RequestDuration.With(labels).Observe(time.Since(start).Seconds())
			RequestTotal.With(labels).Inc()
			ResponseSize.WithLabelValues(r.Method, path).Observe(float64(sw.bytes))
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePattern() == "" {
		return "unmatched"
	}
	return rctx.RoutePattern()
}

// Handler serves Registry in the Prometheus text or OpenMetrics format.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true}).ServeHTTP
}

// ObserveDBQuery records the time since start for a statement of kind op.
func ObserveDBQuery(op string, start time.Time) {
	DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// CacheLookup counts a stats cache lookup against driver.
func CacheLookup(driver string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(driver, result).Inc()
}

// StatsTimer returns a func that records the elapsed aggregation time.
//
//	defer metrics.StatsTimer()()
func StatsTimer() func() {
	t := prometheus.NewTimer(StatsComputeDuration)
	return func() { t.ObserveDuration() }
}
