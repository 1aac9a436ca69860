package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/priyanshagrawal/overlaybridge/internal/bridge"
	"github.com/priyanshagrawal/overlaybridge/internal/logging"
	"github.com/priyanshagrawal/overlaybridge/internal/metrics"
	"github.com/priyanshagrawal/overlaybridge/internal/storage"
	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// Manifest is the flattened timeline handed to the renderer. It carries
// everything the renderer needs without reading the config representation.
type Manifest struct {
	JobID       string                   `json:"job_id"`
	CreativeID  string                   `json:"creative_id"`
	SourceURL   string                   `json:"source_url"`
	FPS         float64                  `json:"fps"`
	Width       int                      `json:"width"`
	Height      int                      `json:"height"`
	TotalFrames int                      `json:"total_frames"`
	Overlays    []models.TimelineOverlay `json:"overlays"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// Store is the persistence surface the render service depends on
type Store interface {
	GetCreative(ctx context.Context, id string) (*models.Creative, error)
	UpdateCreativeStatus(ctx context.Context, id, status string) error
	UpdateRenderJobStatus(ctx context.Context, id, status string) error
	CompleteRenderJob(ctx context.Context, id, outputURL string) error
	FailRenderJob(ctx context.Context, id, errorMsg string) error
}

// ObjectStorage is the storage surface the render service depends on
type ObjectStorage interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Notifier delivers render lifecycle webhooks
type Notifier interface {
	NotifyRenderStarted(ctx context.Context, job *models.RenderJob) error
	NotifyRenderCompleted(ctx context.Context, job *models.RenderJob) error
	NotifyRenderFailed(ctx context.Context, job *models.RenderJob) error
}

// Service flattens creatives into render manifests and tracks job state
type Service struct {
	repo     Store
	storage  ObjectStorage
	notifier Notifier
	logger   *logging.Logger
	workerID string
}

// NewService creates a new render service
func NewService(repo Store, stor ObjectStorage, notifier Notifier, logger *logging.Logger) *Service {
	return &Service{
		repo:     repo,
		storage:  stor,
		notifier: notifier,
		logger:   logger,
		workerID: uuid.New().String(),
	}
}

// BuildManifest flattens a creative's overlay config into a render manifest
func BuildManifest(job *models.RenderJob, creative *models.Creative) *Manifest {
	overlays := bridge.ToTimeline(&creative.Overlays, bridge.SourceVideo{
		URL:      creative.VideoURL,
		Duration: creative.Duration,
		FPS:      creative.FPS,
	})

	// The manifest spans to the last frame any entry occupies
	totalFrames := 0
	for _, o := range overlays {
		if end := o.From + o.DurationInFrames; end > totalFrames {
			totalFrames = end
		}
	}

	return &Manifest{
		JobID:       job.ID,
		CreativeID:  creative.ID,
		SourceURL:   creative.VideoURL,
		FPS:         creative.FPS,
		Width:       bridge.CanvasWidth,
		Height:      bridge.CanvasHeight,
		TotalFrames: totalFrames,
		Overlays:    overlays,
		GeneratedAt: time.Now(),
	}
}

// ProcessJob processes a render job end to end
func (s *Service) ProcessJob(ctx context.Context, job *models.RenderJob) error {
	start := time.Now()
	log := s.logger.WithJobID(job.ID).WithCreativeID(job.CreativeID)

	job.Status = models.RenderJobStatusProcessing
	if err := s.repo.UpdateRenderJobStatus(ctx, job.ID, models.RenderJobStatusProcessing); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	if err := s.notifier.NotifyRenderStarted(ctx, job); err != nil {
		log.ErrorWithErr("Failed to deliver start webhook", err)
	}

	creative, err := s.repo.GetCreative(ctx, job.CreativeID)
	if err != nil {
		return s.failJob(ctx, job, start, fmt.Errorf("failed to get creative: %w", err))
	}

	convStart := time.Now()
	manifest := BuildManifest(job, creative)
	metrics.RecordConversion("to_timeline", len(manifest.Overlays), time.Since(convStart).Seconds())
	s.logger.LogConversion(creative.ID, "to_timeline", len(manifest.Overlays), time.Since(convStart))

	payload, err := json.Marshal(manifest)
	if err != nil {
		return s.failJob(ctx, job, start, fmt.Errorf("failed to marshal manifest: %w", err))
	}

	key := fmt.Sprintf("%s%s/%s.json", storage.PrefixRenders, creative.ID, job.ID)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(payload), int64(len(payload)), "application/json"); err != nil {
		return s.failJob(ctx, job, start, fmt.Errorf("failed to upload manifest: %w", err))
	}

	outputURL, err := s.storage.GetURL(ctx, key, 24*time.Hour)
	if err != nil {
		return s.failJob(ctx, job, start, fmt.Errorf("failed to generate output URL: %w", err))
	}

	if err := s.repo.CompleteRenderJob(ctx, job.ID, outputURL); err != nil {
		return fmt.Errorf("failed to complete render job: %w", err)
	}

	if err := s.repo.UpdateCreativeStatus(ctx, creative.ID, models.CreativeStatusRendered); err != nil {
		log.ErrorWithErr("Failed to update creative status", err)
	}

	job.Status = models.RenderJobStatusCompleted
	job.OutputURL = outputURL
	if err := s.notifier.NotifyRenderCompleted(ctx, job); err != nil {
		log.ErrorWithErr("Failed to deliver completion webhook", err)
	}

	metrics.RecordRenderJobCompleted(models.RenderJobStatusCompleted, time.Since(start).Seconds())
	s.logger.LogRenderEvent(job.ID, creative.ID, "render_completed", job.Status)

	return nil
}

// failJob marks a job as failed and fires the failure webhook
func (s *Service) failJob(ctx context.Context, job *models.RenderJob, start time.Time, cause error) error {
	log := s.logger.WithJobID(job.ID).WithCreativeID(job.CreativeID)

	if err := s.repo.FailRenderJob(ctx, job.ID, cause.Error()); err != nil {
		log.ErrorWithErr("Failed to mark job failed", err)
	}
	if err := s.repo.UpdateCreativeStatus(ctx, job.CreativeID, models.CreativeStatusFailed); err != nil {
		log.ErrorWithErr("Failed to update creative status", err)
	}

	job.Status = models.RenderJobStatusFailed
	job.ErrorMsg = cause.Error()
	if err := s.notifier.NotifyRenderFailed(ctx, job); err != nil {
		log.ErrorWithErr("Failed to deliver failure webhook", err)
	}

	metrics.RecordRenderJobCompleted(models.RenderJobStatusFailed, time.Since(start).Seconds())
	metrics.RecordError("worker", "render")

	return cause
}
