package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// Repository provides database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Health checks database connectivity
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

// Creatives

// CreateCreative creates a new creative record
func (r *Repository) CreateCreative(ctx context.Context, creative *models.Creative) error {
	if creative.ID == "" {
		creative.ID = uuid.New().String()
	}
	if creative.Status == "" {
		creative.Status = models.CreativeStatusDraft
	}
	if creative.Version == 0 {
		creative.Version = 1
	}

	query := `
		INSERT INTO creatives (id, user_id, title, video_url, duration, fps, overlays, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		creative.ID, creative.UserID, creative.Title, creative.VideoURL,
		creative.Duration, creative.FPS, creative.Overlays, creative.Status, creative.Version,
	).Scan(&creative.CreatedAt, &creative.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create creative: %w", err)
	}

	return nil
}

// GetCreative retrieves a creative by ID
func (r *Repository) GetCreative(ctx context.Context, id string) (*models.Creative, error) {
	var creative models.Creative

	query := `
		SELECT id, user_id, title, video_url, duration, fps, overlays, status, version,
		       created_at, updated_at
		FROM creatives
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&creative.ID, &creative.UserID, &creative.Title, &creative.VideoURL,
		&creative.Duration, &creative.FPS, &creative.Overlays, &creative.Status,
		&creative.Version, &creative.CreatedAt, &creative.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("creative not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creative: %w", err)
	}

	return &creative, nil
}

// ListCreatives retrieves a user's creatives with pagination
func (r *Repository) ListCreatives(ctx context.Context, userID string, limit, offset int) ([]*models.Creative, error) {
	query := `
		SELECT id, user_id, title, video_url, duration, fps, overlays, status, version,
		       created_at, updated_at
		FROM creatives
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list creatives: %w", err)
	}
	defer rows.Close()

	var creatives []*models.Creative
	for rows.Next() {
		var creative models.Creative
		err := rows.Scan(
			&creative.ID, &creative.UserID, &creative.Title, &creative.VideoURL,
			&creative.Duration, &creative.FPS, &creative.Overlays, &creative.Status,
			&creative.Version, &creative.CreatedAt, &creative.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan creative: %w", err)
		}
		creatives = append(creatives, &creative)
	}

	return creatives, nil
}

// UpdateCreative updates a creative's metadata and status
func (r *Repository) UpdateCreative(ctx context.Context, creative *models.Creative) error {
	query := `
		UPDATE creatives
		SET title = $2, video_url = $3, duration = $4, fps = $5, status = $6
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		creative.ID, creative.Title, creative.VideoURL, creative.Duration,
		creative.FPS, creative.Status,
	)

	if err != nil {
		return fmt.Errorf("failed to update creative: %w", err)
	}

	return nil
}

// UpdateCreativeOverlays replaces the overlay config and bumps the version.
// The returned version is the one the new config is stored under.
func (r *Repository) UpdateCreativeOverlays(ctx context.Context, id string, overlays models.OverlayConfig) (int, error) {
	query := `
		UPDATE creatives
		SET overlays = $2, version = version + 1
		WHERE id = $1
		RETURNING version
	`

	var version int
	err := r.db.Pool.QueryRow(ctx, query, id, overlays).Scan(&version)

	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("creative not found")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update overlays: %w", err)
	}

	return version, nil
}

// UpdateCreativeStatus updates a creative's status
func (r *Repository) UpdateCreativeStatus(ctx context.Context, id, status string) error {
	query := `UPDATE creatives SET status = $2 WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update creative status: %w", err)
	}

	return nil
}

// DeleteCreative deletes a creative record
func (r *Repository) DeleteCreative(ctx context.Context, id string) error {
	query := `DELETE FROM creatives WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete creative: %w", err)
	}

	return nil
}

// Render jobs

// CreateRenderJob creates a new render job record
func (r *Repository) CreateRenderJob(ctx context.Context, job *models.RenderJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = models.RenderJobStatusQueued
	}

	query := `
		INSERT INTO render_jobs (id, creative_id, status, priority, retry_count, webhook_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		job.ID, job.CreativeID, job.Status, job.Priority, job.RetryCount, job.WebhookURL,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create render job: %w", err)
	}

	return nil
}

// GetRenderJob retrieves a render job by ID
func (r *Repository) GetRenderJob(ctx context.Context, id string) (*models.RenderJob, error) {
	var job models.RenderJob

	query := `
		SELECT id, creative_id, status, priority, output_url, error_msg, retry_count,
		       webhook_url, started_at, completed_at, created_at, updated_at
		FROM render_jobs
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.CreativeID, &job.Status, &job.Priority, &job.OutputURL,
		&job.ErrorMsg, &job.RetryCount, &job.WebhookURL, &job.StartedAt,
		&job.CompletedAt, &job.CreatedAt, &job.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("render job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get render job: %w", err)
	}

	return &job, nil
}

// ListRenderJobs retrieves render jobs for a creative
func (r *Repository) ListRenderJobs(ctx context.Context, creativeID string, limit, offset int) ([]*models.RenderJob, error) {
	query := `
		SELECT id, creative_id, status, priority, output_url, error_msg, retry_count,
		       webhook_url, started_at, completed_at, created_at, updated_at
		FROM render_jobs
		WHERE creative_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, creativeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list render jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.RenderJob
	for rows.Next() {
		var job models.RenderJob
		err := rows.Scan(
			&job.ID, &job.CreativeID, &job.Status, &job.Priority, &job.OutputURL,
			&job.ErrorMsg, &job.RetryCount, &job.WebhookURL, &job.StartedAt,
			&job.CompletedAt, &job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan render job: %w", err)
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}

// GetPendingRenderJobs retrieves queued render jobs ordered by priority
func (r *Repository) GetPendingRenderJobs(ctx context.Context, limit int) ([]*models.RenderJob, error) {
	query := `
		SELECT id, creative_id, status, priority, output_url, error_msg, retry_count,
		       webhook_url, started_at, completed_at, created_at, updated_at
		FROM render_jobs
		WHERE status = $1
		ORDER BY priority DESC, created_at ASC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, models.RenderJobStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending render jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.RenderJob
	for rows.Next() {
		var job models.RenderJob
		err := rows.Scan(
			&job.ID, &job.CreativeID, &job.Status, &job.Priority, &job.OutputURL,
			&job.ErrorMsg, &job.RetryCount, &job.WebhookURL, &job.StartedAt,
			&job.CompletedAt, &job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan render job: %w", err)
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}

// UpdateRenderJobStatus updates a render job's status and timestamps
func (r *Repository) UpdateRenderJobStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE render_jobs
		SET status = $2,
		    started_at = CASE WHEN $2 = 'processing' THEN NOW() ELSE started_at END,
		    completed_at = CASE WHEN $2 IN ('completed', 'failed') THEN NOW() ELSE completed_at END
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update render job status: %w", err)
	}

	return nil
}

// CompleteRenderJob marks a render job as completed with its output URL
func (r *Repository) CompleteRenderJob(ctx context.Context, id, outputURL string) error {
	query := `
		UPDATE render_jobs
		SET status = $2, output_url = $3, completed_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, models.RenderJobStatusCompleted, outputURL)
	if err != nil {
		return fmt.Errorf("failed to complete render job: %w", err)
	}

	return nil
}

// FailRenderJob marks a render job as failed with an error message
func (r *Repository) FailRenderJob(ctx context.Context, id, errorMsg string) error {
	query := `
		UPDATE render_jobs
		SET status = $2, error_msg = $3, retry_count = retry_count + 1, completed_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, models.RenderJobStatusFailed, errorMsg)
	if err != nil {
		return fmt.Errorf("failed to fail render job: %w", err)
	}

	return nil
}

// Users

// CreateUser creates a new user record
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, email, password_hash, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, email, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, email, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
