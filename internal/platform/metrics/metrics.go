// Package metrics exposes Prometheus counters for identity issuance,
// record appends, notification dispatch and access decisions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors.
type Metrics struct {
	HIDsIssued           prometheus.Counter
	RecordsAppended      prometheus.Counter
	NotificationsCreated prometheus.Counter
	NotificationFailures prometheus.Counter
	AccessDenied         *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers every metric on reg. Passing a fresh prometheus.Registry
// keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HIDsIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "hids_issued_total",
			Help: "Total number of health identifiers issued",
		}),
		RecordsAppended: f.NewCounter(prometheus.CounterOpts{
			Name: "records_appended_total",
			Help: "Total number of medical records appended",
		}),
		NotificationsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of follow-up notifications stored",
		}),
		NotificationFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Follow-up notifications that could not be stored after a record append",
		}),
		AccessDenied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "access_denied_total",
			Help: "Access decisions that denied the caller",
		}, []string{"operation", "reason"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}
}

func (m *Metrics) IncrementHIDsIssued()           { m.HIDsIssued.Inc() }
func (m *Metrics) IncrementRecordsAppended()      { m.RecordsAppended.Inc() }
func (m *Metrics) IncrementNotificationsCreated() { m.NotificationsCreated.Inc() }
func (m *Metrics) IncrementNotificationFailures() { m.NotificationFailures.Inc() }

// IncrementAccessDenied records a denial; reason is "unauthenticated" or
// "forbidden".
func (m *Metrics) IncrementAccessDenied(operation, reason string) {
	m.AccessDenied.WithLabelValues(operation, reason).Inc()
}

// Middleware observes request duration labelled by the matched route
// template rather than the raw path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.RequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
