package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "endpoint"},
	)

	// QuizResults counts submitted results by status.
	QuizResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nihongo_quiz_results_total",
			Help: "Quiz results submitted, by status",
		},
		[]string{"status"},
	)

	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nihongo_logins_total",
			Help: "Logins, split into new registrations and returning users",
		},
		[]string{"kind"},
	)

	BookmarkToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nihongo_bookmark_toggles_total",
			Help: "Bookmark toggles by resulting action",
		},
		[]string{"action"},
	)

	DashboardCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nihongo_dashboard_cache_total",
			Help: "Dashboard snapshot cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	initOnce sync.Once
)

// Init registers the collectors. Safe to call more than once, which tests do
// when they build several routers.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(QuizResults)
		prometheus.MustRegister(Logins)
		prometheus.MustRegister(BookmarkToggles)
		prometheus.MustRegister(DashboardCache)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
