package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ChatLoads counts chat reads by outcome (hit, miss, error).
	ChatLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_chat_loads_total",
			Help: "Paper chat reads by cache outcome.",
		},
		[]string{"outcome"},
	)

	// MessagesPosted counts accepted chat messages by sender.
	MessagesPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_chat_messages_posted_total",
			Help: "Accepted paper chat messages by sender.",
		},
		[]string{"sender"},
	)

	// MessagesRejected counts refused posts by reason.
	MessagesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_chat_messages_rejected_total",
			Help: "Refused paper chat messages by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests, httpLatency, ChatLoads, MessagesPosted, MessagesRejected)
}

// GinMiddleware records request counts and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
