package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API. Each instance has its
// own registry so routers can be built repeatedly in tests.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	catalogProducts prometheus.Gauge
}

// NewMetrics creates and registers the API collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dealscope",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dealscope",
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request durations.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "route", "status"},
		),
		catalogProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dealscope",
			Name:      "catalog_products",
			Help:      "Number of products in the current catalog snapshot.",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.catalogProducts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records request count and latency per route template
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// RecordRequest records metrics for one HTTP request
func (m *Metrics) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveCatalog sets the catalog size gauge
func (m *Metrics) ObserveCatalog(products int) {
	m.catalogProducts.Set(float64(products))
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func classifyStatus(statusCode int) string {
	if statusCode < 100 || statusCode >= 600 {
		return "unknown"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}
