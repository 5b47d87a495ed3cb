package middleware

import (
	"net/http"
	"time"
)

const timeoutBody = `{"error":"request timeout"}`

// Timeout returns middleware that cuts off handlers running past the limit
// with a 503 and a JSON body. A non-positive limit disables the guard.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.TimeoutHandler(next, limit, timeoutBody)
	}
}
