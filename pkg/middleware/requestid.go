package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/irsearch/platform/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID returns middleware that attaches a request id to the context and
// echoes it in the response headers. An incoming X-Request-ID is reused.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = newRequestID()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRequestID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf[:])
}
