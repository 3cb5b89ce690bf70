package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RegisterSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agent_register_success_total",
		Help: "Total successful agent registrations",
	})

	AuthFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_failure_total",
		Help: "Total failed authentication attempts",
	}, []string{"reason"})

	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_created_total",
		Help: "Total posts successfully created",
	})

	CommentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comments_created_total",
		Help: "Total comments successfully created",
	})

	UpvoteToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upvote_toggles_total",
		Help: "Total upvote toggles by outcome",
	}, []string{"action"})

	ClaimsConfirmed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "claims_confirmed_total",
		Help: "Total agents successfully claimed",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RegisterSuccess)
	prometheus.MustRegister(AuthFailure)
	prometheus.MustRegister(PostsCreated)
	prometheus.MustRegister(CommentsCreated)
	prometheus.MustRegister(UpvoteToggles)
	prometheus.MustRegister(ClaimsConfirmed)
}

// Middleware to track request timing and status code
type statusRecordingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecordingWriter{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		route := r.URL.Path
		method := r.Method
		status := fmt.Sprintf("%d", rw.statusCode)

		RequestDuration.WithLabelValues(method, route, status).Observe(duration)
	})
}
