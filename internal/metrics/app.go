package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Application Prometheus metrics.
var (
	FunctionExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "songsearch",
			Name:      "function_executions_total",
			Help:      "Total function executions by callback and outcome",
		},
		[]string{"callback_id", "status"}, // status: "success" / "error" / "panic" / "unknown" / "duplicate"
	)

	FunctionExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "songsearch",
			Name:      "function_execution_duration_seconds",
			Help:      "Function handler duration in seconds (excluding completion call)",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"callback_id"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "songsearch",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	PlatformRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "songsearch",
			Name:      "platform_api_requests_total",
			Help:      "Total platform Web API calls by method and status",
		},
		[]string{"method", "status"},
	)

	PlatformRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "songsearch",
			Name:      "platform_api_request_duration_seconds",
			Help:      "Platform Web API call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	DetailsPresentationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "songsearch",
			Name:      "details_presentations_total",
			Help:      "Entity details presentations by outcome",
		},
		[]string{"status"},
	)

	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "songsearch",
			Name:      "events_total",
			Help:      "Inbound platform events by type and transport",
		},
		[]string{"type", "transport"},
	)

	SocketConnectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "songsearch",
			Name:      "socket_connections_total",
			Help:      "Socket mode connection attempts by outcome",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// RegisterAppMetrics registers the application metrics. Must be called from main.
func RegisterAppMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			FunctionExecutionsTotal,
			FunctionExecutionDuration,
			SearchResults,
			PlatformRequestsTotal,
			PlatformRequestDuration,
			DetailsPresentationsTotal,
			EventsTotal,
			SocketConnectionsTotal,
		)
	})
}
