package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"hooklog/internal/engine/requests"
	"hooklog/internal/pkg/errors"
)

// RateLimit limits each client to perMinute requests in a sliding window.
// The client is identified the same way ingestion records it, falling back to
// the remote address. A non-positive limit disables the middleware.
func RateLimit(scope string, perMinute int, ipHeaders []string) func(http.HandlerFunc) http.HandlerFunc {
	if perMinute <= 0 {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	limiter := httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if ip := requests.ClientIP(r, ipHeaders); ip != "unknown" {
				return scope + ":" + ip, nil
			}
			key, err := httprate.KeyByIP(r)
			return scope + ":" + key, err
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			errors.WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		}),
	)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return limiter(next).ServeHTTP
	}
}
