package httpx

import (
	"net/http"
	"strconv"
	"time"

	"gamehub/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// MetricsMiddleware records request count and latency by route pattern, so
// ids in paths do not explode label cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrapResponseWriter(w)

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(rw.statusCode), time.Since(start))
	})
}
