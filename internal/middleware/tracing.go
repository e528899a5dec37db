// Package middleware provides HTTP middleware for the microblog API.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/waveline/microblog/pkg/logger"
)

type traceIDKey struct{}

// TraceID returns the trace identifier carried by the context, if any.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// Tracing propagates or generates an X-Trace-ID header for every request
// and logs the request outcome.
type Tracing struct {
	log *logger.Logger
}

// NewTracing creates a tracing middleware.
func NewTracing(log *logger.Logger) *Tracing {
	if log == nil {
		log = logger.NewDefault("http")
	}
	return &Tracing{log: log}
}

// Handler returns the tracing middleware handler.
func (m *Tracing) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), traceIDKey{}, traceID)
		w.Header().Set("X-Trace-ID", traceID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rw, r.WithContext(ctx))

		m.log.WithField("trace_id", traceID).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status", rw.statusCode).
			WithField("duration", time.Since(start).String()).
			Debug("request handled")
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
