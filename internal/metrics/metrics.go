package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	checkoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hweibo_checkout_total",
			Help: "Finished checkouts by outcome.",
		},
		[]string{"status"},
	)
	checkoutDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hweibo_checkout_duration_seconds",
			Help:    "Wall time of checkout runs.",
			Buckets: []float64{0.5, 1, 2, 3, 4, 5, 7.5, 10, 15},
		},
		[]string{"status"},
	)
	searchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hweibo_search_total",
			Help: "Searches answered, by source.",
		},
		[]string{"source"},
	)
	cartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hweibo_cart_mutations_total",
			Help: "Cart changes by operation.",
		},
		[]string{"op"},
	)
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hweibo_active_sessions",
			Help: "Sessions currently held in memory.",
		},
	)
	rateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hweibo_rate_limited_total",
			Help: "Requests rejected by the prompt rate limiter.",
		},
	)
)

func ObserveCheckout(status string, d time.Duration) {
	checkoutTotal.WithLabelValues(status).Inc()
	checkoutDuration.WithLabelValues(status).Observe(d.Seconds())
}

func IncSearch(source string) {
	searchTotal.WithLabelValues(source).Inc()
}

func IncCartMutation(op string) {
	cartMutationsTotal.WithLabelValues(op).Inc()
}

func SessionOpened() {
	activeSessions.Inc()
}

func SessionClosed() {
	activeSessions.Dec()
}

func IncRateLimited() {
	rateLimitedTotal.Inc()
}

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {

			// The mux fills in r.Pattern while routing, so this middleware
			// must wrap the mux directly.
			pathPattern := r.Pattern
			if pathPattern == "" {
				pathPattern = "unmatched"
			}

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()

		}()

		next.ServeHTTP(rw, r)

	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
