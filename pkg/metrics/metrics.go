package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learntube_http_requests_total",
			Help: "Total number of HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "learntube_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "learntube_db_query_duration_seconds",
			Help:    "Database query latency by operation and table.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation", "table"},
	)

	watchSecondsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learntube_watch_seconds_ingested_total",
			Help: "Total watch-time seconds ingested through chunk events.",
		},
	)

	snapshotsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learntube_progress_snapshots_total",
			Help: "Total video progress snapshots applied.",
		},
	)

	completionTransitions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learntube_video_completions_total",
			Help: "Total false-to-true video completion transitions.",
		},
	)
)

// Middleware records request counts and latency for every route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordDBQuery records a database query observation. Called by the gorm logger.
func RecordDBQuery(operation, table string, elapsed time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// RecordChunk counts ingested watch-time seconds.
func RecordChunk(seconds int) {
	if seconds > 0 {
		watchSecondsIngested.Add(float64(seconds))
	}
}

// RecordSnapshot counts an applied progress snapshot and, when transition
// is true, a completion transition.
func RecordSnapshot(transition bool) {
	snapshotsApplied.Inc()
	if transition {
		completionTransitions.Inc()
	}
}
