package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospmeals_http_requests_total",
			Help: "Pages served, by method and status class.",
		},
		[]string{"method", "status"},
	)
	httpDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hospmeals_http_request_seconds",
			Help:    "Page render latency including backend round trips.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(httpDuration)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		timer.ObserveDuration()
		httpRequests.WithLabelValues(r.Method, statusClass(rec.status)).Inc()
	})
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

func metricsHandler() http.Handler {
	return promhttp.Handler()
}
