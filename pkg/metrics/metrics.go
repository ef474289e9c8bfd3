// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequestDuration tracks backend request duration.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Assistant backend request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	// BackendRequestsTotal tracks total backend requests. Status is the
	// HTTP status code, or the failure kind when no response arrived.
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total assistant backend requests",
		},
		[]string{"method", "path", "status"},
	)

	// UploadsTotal tracks documents successfully uploaded.
	UploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "documents_uploaded_total",
			Help: "Total documents uploaded",
		},
	)

	// ChatMessagesTotal tracks transcript messages by sender.
	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total chat messages appended to the transcript",
		},
		[]string{"sender"},
	)
)

// RecordBackendRequest records metrics for one backend request.
func RecordBackendRequest(method, path, status string, duration float64) {
	BackendRequestDuration.WithLabelValues(method, path, status).Observe(duration)
	BackendRequestsTotal.WithLabelValues(method, path, status).Inc()
}
