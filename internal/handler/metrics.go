package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the backend.
var Metrics = struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	PagesFetched     prometheus.Counter
	VideosFetched    prometheus.Counter
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	ExportsTotal     *prometheus.CounterVec
	APIErrors        *prometheus.CounterVec
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics() {
	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubenavi_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tubenavi_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubenavi_playlist_pages_fetched_total",
			Help: "Total uploads-playlist pages fetched from the YouTube API.",
		},
	)

	Metrics.VideosFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubenavi_videos_fetched_total",
			Help: "Total videos returned from the YouTube API.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubenavi_cache_hits_total",
			Help: "Total in-memory cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubenavi_cache_misses_total",
			Help: "Total in-memory cache misses.",
		},
	)

	Metrics.ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubenavi_exports_total",
			Help: "Total exports generated, by format.",
		},
		[]string{"format"},
	)

	Metrics.APIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubenavi_youtube_api_errors_total",
			Help: "Total classified YouTube API errors, by category.",
		},
		[]string{"category"},
	)

	prometheus.MustRegister(
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.PagesFetched,
		Metrics.VideosFetched,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.ExportsTotal,
		Metrics.APIErrors,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(path, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
