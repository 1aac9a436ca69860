package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/priyanshagrawal/overlaybridge/internal/bridge"
	"github.com/priyanshagrawal/overlaybridge/internal/metrics"
	"github.com/priyanshagrawal/overlaybridge/internal/middleware"
	"github.com/priyanshagrawal/overlaybridge/internal/storage"
	"github.com/priyanshagrawal/overlaybridge/internal/tracing"
	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := api.repo.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Auth

// Register endpoint
func (api *API) register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := api.repo.CreateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login endpoint
func (api *API) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := api.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || user == nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, api.cfg.Auth.TokenExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(api.cfg.Auth.TokenExpiry.Seconds()),
	})
}

// Creatives

// Create creative endpoint
func (api *API) createCreative(c *gin.Context) {
	var req struct {
		Title    string               `json:"title" binding:"required"`
		VideoURL string               `json:"video_url" binding:"required"`
		Duration float64              `json:"duration" binding:"required,gt=0"`
		FPS      float64              `json:"fps"`
		Overlays models.OverlayConfig `json:"overlays"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.GetUserID(c)

	if req.FPS <= 0 {
		req.FPS = api.cfg.Bridge.DefaultFPS
	}

	creative := &models.Creative{
		UserID:   userID,
		Title:    req.Title,
		VideoURL: req.VideoURL,
		Duration: req.Duration,
		FPS:      req.FPS,
		Overlays: req.Overlays,
		Status:   models.CreativeStatusDraft,
	}

	if err := api.repo.CreateCreative(c.Request.Context(), creative); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create creative: %v", err)})
		return
	}

	c.JSON(http.StatusCreated, creative)
}

// Get creative endpoint
func (api *API) getCreative(c *gin.Context) {
	creative, ok := api.loadOwnedCreative(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, creative)
}

// List creatives endpoint
func (api *API) listCreatives(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	limit, offset := paginationParams(c)

	creatives, err := api.repo.ListCreatives(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"creatives": creatives,
		"limit":     limit,
		"offset":    offset,
	})
}

// Update creative endpoint
func (api *API) updateCreative(c *gin.Context) {
	creative, ok := api.loadOwnedCreative(c)
	if !ok {
		return
	}

	var req struct {
		Title    string  `json:"title"`
		VideoURL string  `json:"video_url"`
		Duration float64 `json:"duration"`
		FPS      float64 `json:"fps"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != "" {
		creative.Title = req.Title
	}
	if req.VideoURL != "" {
		creative.VideoURL = req.VideoURL
	}
	if req.Duration > 0 {
		creative.Duration = req.Duration
	}
	if req.FPS > 0 {
		creative.FPS = req.FPS
	}

	if err := api.repo.UpdateCreative(c.Request.Context(), creative); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to update creative: %v", err)})
		return
	}

	// Source video changes invalidate any flattened timeline
	if err := api.cache.InvalidateTimelines(c.Request.Context(), creative.ID); err != nil {
		api.logger.WithCreativeID(creative.ID).ErrorWithErr("Failed to invalidate timeline cache", err)
	}

	c.JSON(http.StatusOK, creative)
}

// Delete creative endpoint
func (api *API) deleteCreative(c *gin.Context) {
	creative, ok := api.loadOwnedCreative(c)
	if !ok {
		return
	}

	if err := api.repo.DeleteCreative(c.Request.Context(), creative.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to delete creative: %v", err)})
		return
	}

	if err := api.cache.InvalidateTimelines(c.Request.Context(), creative.ID); err != nil {
		api.logger.WithCreativeID(creative.ID).ErrorWithErr("Failed to invalidate timeline cache", err)
	}
	if err := api.cache.DeleteCreative(c.Request.Context(), creative.ID); err != nil {
		api.logger.WithCreativeID(creative.ID).ErrorWithErr("Failed to evict creative from cache", err)
	}

	// Rendered outputs are gone with the creative
	if err := api.storage.DeletePrefix(c.Request.Context(), storage.PrefixRenders+creative.ID+"/"); err != nil {
		api.logger.WithCreativeID(creative.ID).ErrorWithErr("Failed to delete rendered outputs", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Creative deleted successfully", "creative_id": creative.ID})
}

// Timeline bridge

// Get timeline endpoint flattens the creative's overlay config for the editor
func (api *API) getTimeline(c *gin.Context) {
	span, ctx := tracing.StartSpan(c.Request.Context(), "api.getTimeline")
	defer tracing.FinishSpan(span)

	creative, ok := api.loadOwnedCreative(c)
	if !ok {
		return
	}
	tracing.SetTag(span, "creative_id", creative.ID)

	if cached, err := api.cache.GetTimeline(ctx, creative.ID, creative.Version); err == nil && cached != nil {
		metrics.RecordCacheAccess("timeline", true)
		c.JSON(http.StatusOK, gin.H{
			"creative_id": creative.ID,
			"version":     creative.Version,
			"fps":         creative.FPS,
			"overlays":    cached,
			"cached":      true,
		})
		return
	}
	metrics.RecordCacheAccess("timeline", false)

	start := time.Now()
	overlays := bridge.ToTimeline(&creative.Overlays, bridge.SourceVideo{
		URL:      creative.VideoURL,
		Duration: creative.Duration,
		FPS:      creative.FPS,
	})
	elapsed := time.Since(start)

	metrics.RecordConversion("to_timeline", len(overlays), elapsed.Seconds())
	api.logger.LogConversion(creative.ID, "to_timeline", len(overlays), elapsed)

	if err := api.cache.SetTimeline(ctx, creative.ID, creative.Version, overlays, api.cfg.Redis.TTL); err != nil {
		api.logger.WithCreativeID(creative.ID).ErrorWithErr("Failed to cache timeline", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"creative_id": creative.ID,
		"version":     creative.Version,
		"fps":         creative.FPS,
		"overlays":    overlays,
		"cached":      false,
	})
}

// Put timeline endpoint folds an edited timeline back into the overlay config
func (api *API) putTimeline(c *gin.Context) {
	span, ctx := tracing.StartSpan(c.Request.Context(), "api.putTimeline")
	defer tracing.FinishSpan(span)

	creative, ok := api.loadOwnedCreative(c)
	if !ok {
		return
	}
	tracing.SetTag(span, "creative_id", creative.ID)

	var req struct {
		Overlays []models.TimelineOverlay `json:"overlays" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	cfg := bridge.FromTimeline(req.Overlays, creative.FPS, &creative.Overlays)
	elapsed := time.Since(start)

	metrics.RecordConversion("from_timeline", len(req.Overlays), elapsed.Seconds())
	api.logger.LogConversion(creative.ID, "from_timeline", len(req.Overlays), elapsed)

	version, err := api.repo.UpdateCreativeOverlays(ctx, creative.ID, *cfg)
	if err != nil {
		tracing.LogError(span, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save overlays: %v", err)})
		return
	}

	if err := api.cache.InvalidateTimelines(ctx, creative.ID); err != nil {
		api.logger.WithCreativeID(creative.ID).ErrorWithErr("Failed to invalidate timeline cache", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"creative_id": creative.ID,
		"version":     version,
		"overlays":    cfg,
	})
}

// Render jobs

// Create render job endpoint
func (api *API) createRenderJob(c *gin.Context) {
	creative, ok := api.loadOwnedCreative(c)
	if !ok {
		return
	}

	var req struct {
		Priority   int    `json:"priority"`
		WebhookURL string `json:"webhook_url"`
	}

	// Body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.Priority == 0 {
		req.Priority = models.RenderJobPriorityNormal
	}

	job := &models.RenderJob{
		CreativeID: creative.ID,
		Status:     models.RenderJobStatusQueued,
		Priority:   req.Priority,
		WebhookURL: req.WebhookURL,
	}

	if err := api.repo.CreateRenderJob(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create render job: %v", err)})
		return
	}

	if err := api.queue.PublishJob(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to queue render job: %v", err)})
		return
	}

	if err := api.repo.UpdateCreativeStatus(c.Request.Context(), creative.ID, models.CreativeStatusRendering); err != nil {
		api.logger.WithCreativeID(creative.ID).ErrorWithErr("Failed to update creative status", err)
	}

	metrics.RecordRenderJobCreated(priorityLabel(job.Priority))

	c.JSON(http.StatusCreated, job)
}

// Get render job endpoint
func (api *API) getRenderJob(c *gin.Context) {
	jobID := c.Param("id")

	job, err := api.repo.GetRenderJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Render job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// List render jobs endpoint
func (api *API) listRenderJobs(c *gin.Context) {
	creative, ok := api.loadOwnedCreative(c)
	if !ok {
		return
	}

	limit, offset := paginationParams(c)

	jobs, err := api.repo.ListRenderJobs(c.Request.Context(), creative.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// Assets

// Upload asset endpoint stores a graphic, voiceover or video clip
func (api *API) uploadAsset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	kind := c.PostForm("kind")
	var prefix string
	switch kind {
	case "video":
		prefix = storage.PrefixVideos
	case "graphic":
		prefix = storage.PrefixGraphics
	case "voiceover":
		prefix = storage.PrefixVoiceover
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be one of: video, graphic, voiceover"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s%s%s", prefix, uuid.New().String(), filepath.Ext(file.Filename))
	if err := api.storage.UploadStreamParallel(c.Request.Context(), key, src, file.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to upload: %v", err)})
		return
	}

	url, err := api.storage.GetURL(c.Request.Context(), key, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to generate URL: %v", err)})
		return
	}

	metrics.RecordAssetUpload(kind, file.Size)

	c.JSON(http.StatusCreated, gin.H{
		"key":  key,
		"url":  url,
		"kind": kind,
		"size": file.Size,
	})
}

// Helpers

// loadOwnedCreative loads the creative from the path param and enforces that
// the authenticated user owns it. Writes the error response on failure.
func (api *API) loadOwnedCreative(c *gin.Context) (*models.Creative, bool) {
	creativeID := c.Param("id")

	creative, err := api.repo.GetCreative(c.Request.Context(), creativeID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creative not found"})
		return nil, false
	}

	userID, _ := middleware.GetUserID(c)
	if creative.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Creative belongs to another user"})
		return nil, false
	}

	return creative, true
}

func paginationParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}

func priorityLabel(priority int) string {
	switch {
	case priority >= models.RenderJobPriorityHigh:
		return "high"
	case priority <= models.RenderJobPriorityLow:
		return "low"
	default:
		return "normal"
	}
}
