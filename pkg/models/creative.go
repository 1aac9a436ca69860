package models

import "time"

// Creative ties a source video to its durable overlay config
type Creative struct {
	ID        string        `json:"id" db:"id"`
	UserID    string        `json:"user_id" db:"user_id"`
	Title     string        `json:"title" db:"title"`
	VideoURL  string        `json:"video_url" db:"video_url"`
	Duration  float64       `json:"duration" db:"duration"`
	FPS       float64       `json:"fps" db:"fps"`
	Overlays  OverlayConfig `json:"overlays" db:"overlays"`
	Status    string        `json:"status" db:"status"`
	Version   int           `json:"version" db:"version"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// CreativeStatus constants
const (
	CreativeStatusDraft     = "draft"
	CreativeStatusReady     = "ready"
	CreativeStatusRendering = "rendering"
	CreativeStatusRendered  = "rendered"
	CreativeStatusFailed    = "failed"
)

// RenderJob is a request to flatten a creative and hand it to the renderer
type RenderJob struct {
	ID          string     `json:"id" db:"id"`
	CreativeID  string     `json:"creative_id" db:"creative_id"`
	Status      string     `json:"status" db:"status"`
	Priority    int        `json:"priority" db:"priority"`
	OutputURL   string     `json:"output_url,omitempty" db:"output_url"`
	ErrorMsg    string     `json:"error_msg,omitempty" db:"error_msg"`
	RetryCount  int        `json:"retry_count" db:"retry_count"`
	WebhookURL  string     `json:"webhook_url,omitempty" db:"webhook_url"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// RenderJobStatus constants
const (
	RenderJobStatusQueued     = "queued"
	RenderJobStatusProcessing = "processing"
	RenderJobStatusCompleted  = "completed"
	RenderJobStatusFailed     = "failed"
)

// RenderJobPriority constants
const (
	RenderJobPriorityLow    = 0
	RenderJobPriorityNormal = 5
	RenderJobPriorityHigh   = 10
)

// User represents an API user
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
