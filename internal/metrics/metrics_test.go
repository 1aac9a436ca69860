package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/v1/creatives/:id/timeline", "200", 0.123)

	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/creatives/:id/timeline", "200"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestRecordConversion(t *testing.T) {
	ConversionsTotal.Reset()
	ConversionDuration.Reset()
	TimelineEntries.Reset()

	RecordConversion("to_timeline", 7, 0.0004)
	RecordConversion("to_timeline", 12, 0.0006)
	RecordConversion("from_timeline", 7, 0.0003)

	forward := testutil.ToFloat64(ConversionsTotal.WithLabelValues("to_timeline"))
	if forward != 2.0 {
		t.Errorf("Expected to_timeline counter to be 2.0, got %f", forward)
	}

	reverse := testutil.ToFloat64(ConversionsTotal.WithLabelValues("from_timeline"))
	if reverse != 1.0 {
		t.Errorf("Expected from_timeline counter to be 1.0, got %f", reverse)
	}
}

func TestRecordRenderJobCreated(t *testing.T) {
	RenderJobsCreatedTotal.Reset()

	RecordRenderJobCreated("high")
	RecordRenderJobCreated("normal")
	RecordRenderJobCreated("high")

	high := testutil.ToFloat64(RenderJobsCreatedTotal.WithLabelValues("high"))
	if high != 2.0 {
		t.Errorf("Expected high priority counter to be 2.0, got %f", high)
	}

	normal := testutil.ToFloat64(RenderJobsCreatedTotal.WithLabelValues("normal"))
	if normal != 1.0 {
		t.Errorf("Expected normal priority counter to be 1.0, got %f", normal)
	}
}

func TestRecordRenderJobCompleted(t *testing.T) {
	RenderJobsCompletedTotal.Reset()

	RecordRenderJobCompleted("completed", 120.5)
	RecordRenderJobCompleted("failed", 30.2)

	completed := testutil.ToFloat64(RenderJobsCompletedTotal.WithLabelValues("completed"))
	if completed != 1.0 {
		t.Errorf("Expected completed counter to be 1.0, got %f", completed)
	}

	failed := testutil.ToFloat64(RenderJobsCompletedTotal.WithLabelValues("failed"))
	if failed != 1.0 {
		t.Errorf("Expected failed counter to be 1.0, got %f", failed)
	}
}

func TestUpdateRenderQueueMetrics(t *testing.T) {
	UpdateRenderQueueMetrics(3, 8)

	inProgress := testutil.ToFloat64(RenderJobsInProgress)
	if inProgress != 3.0 {
		t.Errorf("Expected jobs in progress to be 3.0, got %f", inProgress)
	}

	queueDepth := testutil.ToFloat64(RenderQueueDepth)
	if queueDepth != 8.0 {
		t.Errorf("Expected queue depth to be 8.0, got %f", queueDepth)
	}
}

func TestRecordCacheAccess(t *testing.T) {
	CacheHitsTotal.Reset()
	CacheMissesTotal.Reset()

	RecordCacheAccess("timeline", true)
	RecordCacheAccess("timeline", true)
	RecordCacheAccess("timeline", false)

	hits := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("timeline"))
	if hits != 2.0 {
		t.Errorf("Expected cache hits to be 2.0, got %f", hits)
	}

	misses := testutil.ToFloat64(CacheMissesTotal.WithLabelValues("timeline"))
	if misses != 1.0 {
		t.Errorf("Expected cache misses to be 1.0, got %f", misses)
	}
}

func TestRecordError(t *testing.T) {
	ErrorsTotal.Reset()

	RecordError("api", "validation")
	RecordError("worker", "render")
	RecordError("api", "validation")

	apiErrors := testutil.ToFloat64(ErrorsTotal.WithLabelValues("api", "validation"))
	if apiErrors != 2.0 {
		t.Errorf("Expected API validation errors to be 2.0, got %f", apiErrors)
	}

	workerErrors := testutil.ToFloat64(ErrorsTotal.WithLabelValues("worker", "render"))
	if workerErrors != 1.0 {
		t.Errorf("Expected worker render errors to be 1.0, got %f", workerErrors)
	}
}

func TestRecordWebhookDelivery(t *testing.T) {
	WebhookDeliveriesTotal.Reset()

	RecordWebhookDelivery("success")
	RecordWebhookDelivery("failed")
	RecordWebhookDelivery("success")

	success := testutil.ToFloat64(WebhookDeliveriesTotal.WithLabelValues("success"))
	if success != 2.0 {
		t.Errorf("Expected webhook success counter to be 2.0, got %f", success)
	}
}

func BenchmarkRecordConversion(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordConversion("to_timeline", 10, 0.0005)
	}
}
