package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	Requests           *prometheus.CounterVec
	Checkins           *prometheus.CounterVec
	InvitationsCreated prometheus.Counter
}

// New registers the collectors on a fresh registry together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "undangan_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		Checkins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "undangan_checkins_total",
			Help: "QR check-in scans, split into first and repeat scans.",
		}, []string{"kind"}),
		InvitationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "undangan_invitations_created_total",
			Help: "Invitations created.",
		}),
	}
	reg.MustRegister(
		m.Requests,
		m.Checkins,
		m.InvitationsCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCheckin counts one scan.
func (m *Metrics) ObserveCheckin(first bool) {
	kind := "repeat"
	if first {
		kind = "first"
	}
	m.Checkins.WithLabelValues(kind).Inc()
}

// Middleware counts requests by matched route template, so slugs do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
