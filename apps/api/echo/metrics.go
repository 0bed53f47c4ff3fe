package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission actions
const (
	actionMark    = "mark"
	actionRevoke  = "revoke"
	actionConfirm = "confirm"
)

type metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	registrations prometheus.Counter
	logins        *prometheus.CounterVec
	assignments   prometheus.Counter
	submissions   *prometheus.CounterVec
}

// newMetrics registers the collectors on a registry owned by the server.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joineazy_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "joineazy_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "joineazy_registrations_total",
			Help: "Registered users.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joineazy_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		assignments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "joineazy_assignments_created_total",
			Help: "Created assignments.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joineazy_submissions_total",
			Help: "Submission changes by action (mark, revoke, confirm).",
		}, []string{"action"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests,
		m.latency,
		m.registrations,
		m.logins,
		m.assignments,
		m.submissions,
	)
	return m
}

func (m *metrics) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Error(err) // commit the response so its status is known
			}

			route := ctx.Path()
			m.requests.WithLabelValues(ctx.Request().Method, route, strconv.Itoa(ctx.Response().Status)).Inc()
			m.latency.WithLabelValues(ctx.Request().Method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func (m *metrics) handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *metrics) recordLogin(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.logins.WithLabelValues(result).Inc()
}
