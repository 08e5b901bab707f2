package httpapi

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsRegistry holds the service's own collectors plus process and Go runtime stats
var metricsRegistry = prometheus.NewRegistry()

var (
	metricRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "employee_schedule_http_requests_total",
		Help: "HTTP requests served, by route and status code",
	}, []string{"method", "route", "status"})

	metricRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "employee_schedule_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	metricScheduleDays = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "employee_schedule_resolved_days",
		Help:    "Working days returned per schedule response",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)

func init() {
	metricsRegistry.MustRegister(
		metricRequestsTotal,
		metricRequestDuration,
		metricScheduleDays,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// requestMetrics records per-route counters and latency
func requestMetrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		// Unmatched paths share one label so scanners cannot blow up cardinality
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metricRequestsTotal.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		metricRequestDuration.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func metricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
}
