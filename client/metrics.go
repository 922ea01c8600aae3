package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vitaltrack_client",
			Name:      "requests_total",
			Help:      "Logical requests by method and final outcome.",
		},
		[]string{"method", "outcome"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vitaltrack_client",
			Name:      "retries_total",
			Help:      "Extra attempts made, by reason (network, timeout, cold_start).",
		},
		[]string{"reason"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vitaltrack_client",
			Name:      "request_duration_seconds",
			Help:      "Logical request latency including retries and waits.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	connectionState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "vitaltrack_client",
			Name:      "connection_state",
			Help:      "1 when the client for base_url sees the backend as reachable.",
		},
		[]string{"base_url"},
	)

	connectionChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vitaltrack_client",
			Name:      "connection_changes_total",
			Help:      "Connection state flips, by base URL and new state.",
		},
		[]string{"base_url", "state"},
	)
)

// outcome labels for requestsTotal
const (
	outcomeSuccess  = "success"
	outcomeHTTP     = "http_error"
	outcomeNetwork  = "network_error"
	outcomeTimeout  = "timeout"
	outcomeCanceled = "canceled"
)
