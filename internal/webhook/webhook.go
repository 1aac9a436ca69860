package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/priyanshagrawal/overlaybridge/internal/metrics"
	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// Render job webhook events
const (
	EventRenderStarted   = "render.started"
	EventRenderCompleted = "render.completed"
	EventRenderFailed    = "render.failed"
)

// Event is the payload posted to a render job's webhook URL
type Event struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Notifier delivers render job notifications to per-job webhook URLs
type Notifier struct {
	client     *http.Client
	secret     string
	maxRetries int
}

// NewNotifier creates a new webhook notifier
func NewNotifier(secret string, maxRetries int, timeout time.Duration) *Notifier {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Notifier{
		client: &http.Client{
			Timeout: timeout,
		},
		secret:     secret,
		maxRetries: maxRetries,
	}
}

// Notify posts an event to the given webhook URL, retrying with backoff
func (n *Notifier) Notify(ctx context.Context, url, event string, data interface{}) error {
	if url == "" {
		return nil
	}

	payload := Event{
		ID:        uuid.New().String(),
		Event:     event,
		Timestamp: time.Now(),
		Data:      data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < n.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff: 1s, 2s, 4s, ...
			delay := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := n.send(ctx, url, payload.ID, event, body); err != nil {
			lastErr = err
			metrics.RecordWebhookDelivery("failed")
			continue
		}

		metrics.RecordWebhookDelivery("success")
		return nil
	}

	return fmt.Errorf("webhook delivery failed after %d attempts: %w", n.maxRetries, lastErr)
}

// send performs a single delivery attempt
func (n *Notifier) send(ctx context.Context, url, deliveryID, event string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "OverlayBridge-Webhook/1.0")
	req.Header.Set("X-Webhook-Event", event)
	req.Header.Set("X-Webhook-Delivery", deliveryID)

	if n.secret != "" {
		req.Header.Set("X-Webhook-Signature", n.generateSignature(body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// generateSignature generates HMAC-SHA256 signature for webhook payload
func (n *Notifier) generateSignature(payload []byte) string {
	h := hmac.New(sha256.New, []byte(n.secret))
	h.Write(payload)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

// NotifyRenderStarted sends notification when a render job starts
func (n *Notifier) NotifyRenderStarted(ctx context.Context, job *models.RenderJob) error {
	return n.Notify(ctx, job.WebhookURL, EventRenderStarted, job)
}

// NotifyRenderCompleted sends notification when a render job completes
func (n *Notifier) NotifyRenderCompleted(ctx context.Context, job *models.RenderJob) error {
	return n.Notify(ctx, job.WebhookURL, EventRenderCompleted, job)
}

// NotifyRenderFailed sends notification when a render job fails
func (n *Notifier) NotifyRenderFailed(ctx context.Context, job *models.RenderJob) error {
	return n.Notify(ctx, job.WebhookURL, EventRenderFailed, job)
}
