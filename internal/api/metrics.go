package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var backendRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hospmeals_backend_requests_total",
		Help: "Backend REST calls by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

func observe(op, outcome string) {
	backendRequests.WithLabelValues(op, outcome).Inc()
}
