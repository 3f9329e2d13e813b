package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Total number of storage operations by outcome",
		},
		[]string{"operation", "status"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Duration of storage operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	FeedEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_entries",
			Help: "Number of entries currently admitted into the feed",
		},
	)

	LeaderLikes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leader_like_count",
			Help: "Like count of the current feed leader",
		},
	)

	SubscribedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscribed_clients",
			Help: "Number of websocket clients subscribed to feed events",
		},
	)
)
