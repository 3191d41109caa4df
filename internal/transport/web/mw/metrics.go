package mw

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_http_requests_total",
		Help: "HTTP requests by method, route pattern and status.",
	}, []string{"method", "pattern", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pattern"})
)

// Metrics records per-request counters keyed by the mux route pattern,
// so /api/public/product/get/5 and /get/6 share a series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := &metaWriter{ResponseWriter: w}

		next.ServeHTTP(mw, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		httpRequests.WithLabelValues(r.Method, pattern, strconv.Itoa(mw.status)).Inc()
		httpDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}
