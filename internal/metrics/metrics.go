package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served by the portal, by method, route template and status.",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of HTTP requests served by the portal.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Calls made to the IPPIS backend, by resource, method and status.",
	}, []string{"resource", "method", "status"})

	backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Latency of calls made to the IPPIS backend.",
		Buckets: []float64{
			0.005, 0.01, 0.025, 0.05,
			0.1, 0.25, 0.5, 1,
			2.5, 5, 10,
		},
	}, []string{"resource", "method"})

	ninVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "verification",
		Name:      "nin_total",
		Help:      "NIN verification outcomes (verified, mismatch, not_found, cached, error).",
	}, []string{"result"})

	outboxEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "outbox",
		Name:      "events_total",
		Help:      "Outbox events relayed to Kafka, by result (sent, failed).",
	}, []string{"result"})
)

// ObserveBackend records one backend call. status 0 means a transport failure.
func ObserveBackend(resource, method string, status int, took time.Duration) {
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	backendRequests.WithLabelValues(resource, method, statusLabel).Inc()
	backendLatency.WithLabelValues(resource, method).Observe(took.Seconds())
}

func ObserveNINVerification(result string) {
	ninVerifications.WithLabelValues(result).Inc()
}

func ObserveOutbox(result string) {
	outboxEvents.WithLabelValues(result).Inc()
}

// Middleware records request count and latency keyed by the route template, not the raw path.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func Register(r *gin.Engine, path string) {
	if path == "" {
		path = "/metrics"
	}
	r.GET(path, gin.WrapH(Handler()))
}
