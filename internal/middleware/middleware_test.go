package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTracingGeneratesTraceID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceID(r.Context())
	})
	handler := NewTracing(nil).Handler(inner)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/messages", nil))

	require.NotEmpty(t, seen)
	require.Equal(t, seen, resp.Header().Get("X-Trace-ID"))
}

func TestTracingPropagatesInboundTraceID(t *testing.T) {
	handler := NewTracing(nil).Handler(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	req.Header.Set("X-Trace-ID", "trace-123")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, "trace-123", resp.Header().Get("X-Trace-ID"))
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	handler := NewRateLimiter(1, 2, nil).Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/messages", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// a different client has its own budget
	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestCORSPreflight(t *testing.T) {
	handler := NewCORS([]string{"https://app.example"}).Handler(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/messages", nil)
	req.Header.Set("Origin", "https://app.example")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "https://app.example", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	handler := NewCORS([]string{"https://app.example"}).Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, http.StatusOK, resp.Code)
}
