package render

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/priyanshagrawal/overlaybridge/internal/logging"
	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetCreative(ctx context.Context, id string) (*models.Creative, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Creative), args.Error(1)
}

func (m *mockStore) UpdateCreativeStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockStore) UpdateRenderJobStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockStore) CompleteRenderJob(ctx context.Context, id, outputURL string) error {
	args := m.Called(ctx, id, outputURL)
	return args.Error(0)
}

func (m *mockStore) FailRenderJob(ctx context.Context, id, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

type mockStorage struct {
	mock.Mock
	uploaded []byte
}

func (m *mockStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	m.uploaded, _ = io.ReadAll(reader)
	args := m.Called(ctx, objectName, size, contentType)
	return args.Error(0)
}

func (m *mockStorage) GetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyRenderStarted(ctx context.Context, job *models.RenderJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockNotifier) NotifyRenderCompleted(ctx context.Context, job *models.RenderJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockNotifier) NotifyRenderFailed(ctx context.Context, job *models.RenderJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func testLogger(t *testing.T) *logging.Logger {
	logger, err := logging.NewLogger(logging.Config{Level: "error", Output: "stdout"})
	require.NoError(t, err)
	return logger
}

func testCreative() *models.Creative {
	return &models.Creative{
		ID:       "creative-1",
		UserID:   "user-1",
		VideoURL: "https://cdn.example.com/base.mp4",
		Duration: 8.0,
		FPS:      30,
		Version:  1,
		Overlays: models.OverlayConfig{
			Hook:    &models.HookOverlay{Line1: "Hello", StartTime: 0, EndTime: 3},
			CTA:     &models.CTAOverlay{Text: "Shop Now", StartTime: 6},
			EndCard: &models.EndCardOverlay{Duration: 2, Text: "Bye"},
		},
	}
}

func TestBuildManifest(t *testing.T) {
	job := &models.RenderJob{ID: "job-1", CreativeID: "creative-1"}
	creative := testCreative()

	manifest := BuildManifest(job, creative)

	assert.Equal(t, "job-1", manifest.JobID)
	assert.Equal(t, "creative-1", manifest.CreativeID)
	assert.Equal(t, 30.0, manifest.FPS)
	assert.Equal(t, 1080, manifest.Width)
	assert.Equal(t, 1920, manifest.Height)
	// Base video, hook, CTA, end card background and text
	assert.Len(t, manifest.Overlays, 5)
	// End card runs 2s past the 8s base video
	assert.Equal(t, 300, manifest.TotalFrames)
}

func TestProcessJobSuccess(t *testing.T) {
	store := new(mockStore)
	stor := new(mockStorage)
	notifier := new(mockNotifier)

	job := &models.RenderJob{ID: "job-1", CreativeID: "creative-1", WebhookURL: "https://example.com/hook"}
	creative := testCreative()

	store.On("UpdateRenderJobStatus", mock.Anything, "job-1", models.RenderJobStatusProcessing).Return(nil)
	store.On("GetCreative", mock.Anything, "creative-1").Return(creative, nil)
	store.On("CompleteRenderJob", mock.Anything, "job-1", "https://storage.example.com/manifest").Return(nil)
	store.On("UpdateCreativeStatus", mock.Anything, "creative-1", models.CreativeStatusRendered).Return(nil)
	stor.On("Upload", mock.Anything, "renders/creative-1/job-1.json", mock.Anything, "application/json").Return(nil)
	stor.On("GetURL", mock.Anything, "renders/creative-1/job-1.json", 24*time.Hour).Return("https://storage.example.com/manifest", nil)
	notifier.On("NotifyRenderStarted", mock.Anything, job).Return(nil)
	notifier.On("NotifyRenderCompleted", mock.Anything, job).Return(nil)

	service := NewService(store, stor, notifier, testLogger(t))

	err := service.ProcessJob(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, models.RenderJobStatusCompleted, job.Status)
	assert.Equal(t, "https://storage.example.com/manifest", job.OutputURL)

	// The uploaded manifest must round trip
	var manifest Manifest
	require.NoError(t, json.Unmarshal(stor.uploaded, &manifest))
	assert.Equal(t, "creative-1", manifest.CreativeID)
	assert.NotEmpty(t, manifest.Overlays)

	store.AssertExpectations(t)
	stor.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestProcessJobMissingCreative(t *testing.T) {
	store := new(mockStore)
	stor := new(mockStorage)
	notifier := new(mockNotifier)

	job := &models.RenderJob{ID: "job-1", CreativeID: "gone"}

	store.On("UpdateRenderJobStatus", mock.Anything, "job-1", models.RenderJobStatusProcessing).Return(nil)
	store.On("GetCreative", mock.Anything, "gone").Return(nil, assert.AnError)
	store.On("FailRenderJob", mock.Anything, "job-1", mock.Anything).Return(nil)
	store.On("UpdateCreativeStatus", mock.Anything, "gone", models.CreativeStatusFailed).Return(nil)
	notifier.On("NotifyRenderStarted", mock.Anything, job).Return(nil)
	notifier.On("NotifyRenderFailed", mock.Anything, job).Return(nil)

	service := NewService(store, stor, notifier, testLogger(t))

	err := service.ProcessJob(context.Background(), job)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to get creative"))
	assert.Equal(t, models.RenderJobStatusFailed, job.Status)

	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}
