package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "microblog",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "microblog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "microblog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	accountsRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "microblog",
			Subsystem: "accounts",
			Name:      "registered_total",
			Help:      "Total number of accounts registered.",
		},
	)

	messagesPosted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "microblog",
			Subsystem: "messages",
			Name:      "posted_total",
			Help:      "Total number of messages posted.",
		},
	)

	messagesDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "microblog",
			Subsystem: "messages",
			Name:      "deleted_total",
			Help:      "Total number of messages deleted.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		accountsRegistered,
		messagesPosted,
		messagesDeleted,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

// RecordAccountRegistered counts a successful registration.
func RecordAccountRegistered() { accountsRegistered.Inc() }

// RecordMessagePosted counts a successful message creation.
func RecordMessagePosted() { messagesPosted.Inc() }

// RecordMessageDeleted counts a successful message deletion.
func RecordMessageDeleted() { messagesDeleted.Inc() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// canonicalPath collapses resource identifiers so metric label cardinality
// stays bounded.
func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	switch parts[0] {
	case "messages":
		if len(parts) > 1 {
			return "/messages/:message_id"
		}
		return "/messages"
	case "accounts":
		if len(parts) > 2 {
			return "/accounts/:account_id/" + parts[2]
		}
		if len(parts) > 1 {
			return "/accounts/:account_id"
		}
		return "/accounts"
	default:
		return "/" + parts[0]
	}
}
