package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP holds the request metrics recorded by Middleware.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP creates the request metrics and registers them with reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	m := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_http_requests_total",
			Help: "HTTP requests handled by the admin API",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_http_request_duration_seconds",
			Help:    "Latency of admin API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Middleware records one observation per request, labelled by route template.
func (m *HTTP) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RegisterDBStats exposes database/sql connection pool statistics as gauges.
func RegisterDBStats(reg prometheus.Registerer, db *sql.DB) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "admin_db_open_connections",
			Help: "Number of established connections, in use and idle",
		}, func() float64 {
			return float64(db.Stats().OpenConnections)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "admin_db_in_use_connections",
			Help: "Number of connections currently in use",
		}, func() float64 {
			return float64(db.Stats().InUse)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "admin_db_idle_connections",
			Help: "Number of idle connections",
		}, func() float64 {
			return float64(db.Stats().Idle)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "admin_db_max_open_connections",
			Help: "Maximum number of open connections",
		}, func() float64 {
			return float64(db.Stats().MaxOpenConnections)
		}),
	)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
