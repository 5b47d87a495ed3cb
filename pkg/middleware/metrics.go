// Package middleware provides the HTTP middleware chain of the search web
// app: request IDs, CORS, per-client rate limiting, Prometheus metrics,
// and request timeouts.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/irsearch/platform/pkg/metrics"
)

// Observe returns middleware that records per-route request counts and
// latency plus the in-flight gauge.
func Observe(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.HTTPRequestsInFlight.Inc()
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			m.HTTPRequestsInFlight.Dec()
			m.HTTPRequestsTotal.WithLabelValues(
				r.Method, r.URL.Path, strconv.Itoa(rec.status),
			).Inc()
			m.HTTPRequestDuration.WithLabelValues(
				r.Method, r.URL.Path,
			).Observe(time.Since(start).Seconds())
		})
	}
}

// statusRecorder captures the first status code written to the response.
type statusRecorder struct {
	http.ResponseWriter
	status    int
	committed bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.committed {
		rec.status = code
		rec.committed = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	rec.committed = true
	return rec.ResponseWriter.Write(b)
}
