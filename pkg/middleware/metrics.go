package middleware

import (
	"net/http"
	"strconv"
	"time"

	"travelbook/pkg/metrics"
)

func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     200,
			}

			next.ServeHTTP(wrapped, r)

			metrics.IncHTTP(r.Method, r.URL.Path, strconv.Itoa(wrapped.statusCode))
			metrics.ObserveDuration(r.URL.Path, time.Since(start).Seconds())
		})
	}
}
