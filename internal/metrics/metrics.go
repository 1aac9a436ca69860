package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "overlaybridge_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Conversion Metrics
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_conversions_total",
			Help: "Total number of timeline conversions",
		},
		[]string{"direction"},
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "overlaybridge_conversion_duration_seconds",
			Help:    "Timeline conversion duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
		[]string{"direction"},
	)

	TimelineEntries = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "overlaybridge_timeline_entries",
			Help:    "Number of entries in a flattened timeline",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"direction"},
	)

	// Asset Metrics
	AssetUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_asset_uploads_total",
			Help: "Total number of asset uploads",
		},
		[]string{"kind"},
	)

	AssetUploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "overlaybridge_asset_upload_size_bytes",
			Help:    "Size of uploaded assets in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 12), // 1KB to 16GB
		},
	)

	// Render Job Metrics
	RenderJobsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_render_jobs_created_total",
			Help: "Total number of render jobs created",
		},
		[]string{"priority"},
	)

	RenderJobsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_render_jobs_completed_total",
			Help: "Total number of completed render jobs",
		},
		[]string{"status"},
	)

	RenderJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "overlaybridge_render_jobs_in_progress",
			Help: "Number of render jobs currently being processed",
		},
	)

	RenderQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "overlaybridge_render_queue_depth",
			Help: "Number of render jobs waiting in queue",
		},
	)

	RenderDLQDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "overlaybridge_render_dlq_depth",
			Help: "Number of render jobs parked in the dead letter queue",
		},
	)

	RenderJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "overlaybridge_render_job_duration_seconds",
			Help:    "Render job processing duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1 hour
		},
	)

	// Storage Metrics
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_storage_operations_total",
			Help: "Total number of storage operations",
		},
		[]string{"operation", "status"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "overlaybridge_storage_operation_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation"},
	)

	// Database Metrics
	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "overlaybridge_database_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// Webhook Metrics
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlaybridge_webhook_deliveries_total",
			Help: "Total number of webhook delivery attempts",
		},
		[]string{"status"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordConversion records a timeline conversion with its entry count
func RecordConversion(direction string, entries int, duration float64) {
	ConversionsTotal.WithLabelValues(direction).Inc()
	ConversionDuration.WithLabelValues(direction).Observe(duration)
	TimelineEntries.WithLabelValues(direction).Observe(float64(entries))
}

// RecordAssetUpload records an asset upload
func RecordAssetUpload(kind string, sizeBytes int64) {
	AssetUploadsTotal.WithLabelValues(kind).Inc()
	AssetUploadSizeBytes.Observe(float64(sizeBytes))
}

// RecordRenderJobCreated records a render job creation
func RecordRenderJobCreated(priority string) {
	RenderJobsCreatedTotal.WithLabelValues(priority).Inc()
}

// RecordRenderJobCompleted records a render job completion
func RecordRenderJobCompleted(status string, duration float64) {
	RenderJobsCompletedTotal.WithLabelValues(status).Inc()
	RenderJobDuration.Observe(duration)
}

// UpdateRenderQueueMetrics updates current render queue metrics
func UpdateRenderQueueMetrics(inProgress, queueDepth int) {
	RenderJobsInProgress.Set(float64(inProgress))
	RenderQueueDepth.Set(float64(queueDepth))
}

// RecordStorageOperation records a storage operation
func RecordStorageOperation(operation, status string, duration float64) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordDatabaseOperation records a database operation
func RecordDatabaseOperation(operation, status string, duration float64) {
	DatabaseOperationsTotal.WithLabelValues(operation, status).Inc()
	DatabaseOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCacheAccess records cache hit or miss
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(cacheType).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(cacheType).Inc()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// RecordWebhookDelivery records a webhook delivery attempt
func RecordWebhookDelivery(status string) {
	WebhookDeliveriesTotal.WithLabelValues(status).Inc()
}
