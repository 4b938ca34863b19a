package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "jan"
	subsystem = "media_gateway"
)

// Media gateway metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "uploads_total",
			Help:      "Total file uploads by path and outcome",
		},
		[]string{"media_type", "path", "status"},
	)

	// Upload bytes counter
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upload_bytes_total",
			Help:      "Total bytes committed to storage",
		},
		[]string{"media_type"},
	)

	// Multipart sessions by terminal state
	MultipartSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "multipart_sessions_total",
			Help:      "Multipart sessions by terminal state",
		},
		[]string{"state"},
	)

	// Parts per completed or aborted session
	MultipartParts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "multipart_parts",
			Help:      "Parts committed per multipart session",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		},
	)

	// Abort requests the backend refused or never answered
	AbortFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "multipart_abort_failures_total",
			Help:      "Multipart aborts that failed and were left to backend lifecycle cleanup",
		},
	)

	// Thumbnail outcomes
	ThumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "thumbnails_total",
			Help:      "Derived thumbnail outcomes",
		},
		[]string{"outcome"},
	)

	// Cleanup of committed objects after a later step failed
	CleanupFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cleanup_failures_total",
			Help:      "Best-effort deletes that failed",
		},
		[]string{"stage"},
	)

	// Storage operations counter
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_operations_total",
			Help:      "Total object storage operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// Storage operation duration
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_duration_seconds",
			Help:      "Object storage operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"backend", "operation"},
	)

	// Presign URL duration
	PresignDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "presign_duration_seconds",
			Help:      "Signed URL generation duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records a file upload
func RecordUpload(mediaType, path, status string, bytes int64) {
	UploadsTotal.WithLabelValues(mediaType, path, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(mediaType).Add(float64(bytes))
	}
}

// RecordMultipartSession records the terminal state of a multipart session
func RecordMultipartSession(state string, parts int) {
	MultipartSessionsTotal.WithLabelValues(state).Inc()
	MultipartParts.Observe(float64(parts))
}

// RecordAbortFailure records an abort the backend did not confirm
func RecordAbortFailure() {
	AbortFailuresTotal.Inc()
}

// RecordThumbnail records a thumbnail outcome (generated, skipped, failed)
func RecordThumbnail(outcome string) {
	ThumbnailsTotal.WithLabelValues(outcome).Inc()
}

// RecordCleanupFailure records a failed best-effort delete
func RecordCleanupFailure(stage string) {
	CleanupFailuresTotal.WithLabelValues(stage).Inc()
}

// RecordStorageOperation records an object storage operation
func RecordStorageOperation(backend, operation, status string, durationSec float64) {
	StorageOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	StorageDuration.WithLabelValues(backend, operation).Observe(durationSec)
}

// RecordPresign records presigned URL generation
func RecordPresign(durationSec float64) {
	PresignDuration.Observe(durationSec)
}
