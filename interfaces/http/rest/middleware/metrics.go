package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mtp-backend/pkg/observability"
)

// Metrics records one sample per request into the collector. It sits
// outermost in the chain so the latency covers the full handler stack.
func Metrics(collector *observability.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			collector.Record(time.Since(start), ww.Status() >= http.StatusBadRequest)
		})
	}
}
