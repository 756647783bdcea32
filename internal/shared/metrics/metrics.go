package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railbook_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "railbook_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railbook_searches_total",
		Help: "Journey searches by outcome.",
	}, []string{"outcome"})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railbook_bookings_created_total",
		Help: "Bookings assembled and stored in a session.",
	})

	PassengersBooked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railbook_passengers_booked_total",
		Help: "Passengers across all created bookings.",
	})

	PaymentsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railbook_payments_completed_total",
		Help: "Stub payments by method.",
	}, []string{"method"})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railbook_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railbook_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	}, []string{"type"})

	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railbook_notifications_published_total",
		Help: "Booking notifications by publish outcome.",
	}, []string{"outcome"})
)

// Middleware records request count and latency per matched route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
