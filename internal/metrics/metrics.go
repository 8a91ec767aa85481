package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "review_radar"

// Metrics groups the API's Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlight        prometheus.Gauge
	ReviewsCreated  prometheus.Counter
	ReviewsRejected *prometheus.CounterVec
	ReviewsListed   prometheus.Histogram
	PublishFailures prometheus.Counter
	StoreSize       prometheus.GaugeFunc
}

// New creates the collectors and registers them on reg. storeSize reports the
// current number of stored reviews.
func New(reg *prometheus.Registry, storeSize func() int) *Metrics {
	m := &Metrics{
		gatherer: reg,
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status_code"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being processed.",
		}),
		ReviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_created_total",
			Help:      "Reviews accepted by the write path.",
		}),
		ReviewsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_rejected_total",
			Help:      "Review submissions rejected, by error kind.",
		}, []string{"kind"}),
		ReviewsListed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reviews_listed",
			Help:      "Number of reviews returned per listing.",
			Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Review events that could not be published.",
		}),
	}
	if storeSize == nil {
		storeSize = func() int { return 0 }
	}
	m.StoreSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_reviews",
		Help:      "Reviews currently held in memory.",
	}, func() float64 { return float64(storeSize()) })

	reg.MustRegister(
		m.RequestDuration,
		m.RequestsTotal,
		m.InFlight,
		m.ReviewsCreated,
		m.ReviewsRejected,
		m.ReviewsListed,
		m.PublishFailures,
		m.StoreSize,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency. /metrics and /health are skipped.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		m.InFlight.Inc()
		defer m.InFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		code := strconv.Itoa(status)
		m.RequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(r.Method, route, code).Inc()
	})
}

// ReviewCreated counts an accepted submission.
func (m *Metrics) ReviewCreated() {
	if m == nil {
		return
	}
	m.ReviewsCreated.Inc()
}

// ReviewRejected counts a rejected submission by error kind.
func (m *Metrics) ReviewRejected(kind string) {
	if m == nil {
		return
	}
	m.ReviewsRejected.WithLabelValues(kind).Inc()
}

// Listed records the size of a listing response.
func (m *Metrics) Listed(n int) {
	if m == nil {
		return
	}
	m.ReviewsListed.Observe(float64(n))
}

// PublishFailed counts an event that could not be delivered.
func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.PublishFailures.Inc()
}
