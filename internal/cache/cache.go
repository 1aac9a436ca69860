package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// Cache provides caching functionality using Redis
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Creative Cache Operations

// SetCreative caches creative metadata
func (c *Cache) SetCreative(ctx context.Context, creative *models.Creative, ttl time.Duration) error {
	data, err := json.Marshal(creative)
	if err != nil {
		return fmt.Errorf("failed to marshal creative: %w", err)
	}

	key := fmt.Sprintf("creative:%s", creative.ID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetCreative retrieves creative metadata from cache
func (c *Cache) GetCreative(ctx context.Context, creativeID string) (*models.Creative, error) {
	key := fmt.Sprintf("creative:%s", creativeID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get creative from cache: %w", err)
	}

	var creative models.Creative
	if err := json.Unmarshal(data, &creative); err != nil {
		return nil, fmt.Errorf("failed to unmarshal creative: %w", err)
	}

	return &creative, nil
}

// DeleteCreative removes a creative from cache
func (c *Cache) DeleteCreative(ctx context.Context, creativeID string) error {
	key := fmt.Sprintf("creative:%s", creativeID)
	return c.client.Del(ctx, key).Err()
}

// Timeline Cache Operations
//
// Built timelines are keyed by creative id and config version, so a save
// (which bumps the version) naturally invalidates the stale flattening.

// SetTimeline caches a flattened timeline for a creative
func (c *Cache) SetTimeline(ctx context.Context, creativeID string, version int, overlays []models.TimelineOverlay, ttl time.Duration) error {
	data, err := json.Marshal(overlays)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}

	key := fmt.Sprintf("timeline:%s:v%d", creativeID, version)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetTimeline retrieves a flattened timeline from cache
func (c *Cache) GetTimeline(ctx context.Context, creativeID string, version int) ([]models.TimelineOverlay, error) {
	key := fmt.Sprintf("timeline:%s:v%d", creativeID, version)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get timeline from cache: %w", err)
	}

	var overlays []models.TimelineOverlay
	if err := json.Unmarshal(data, &overlays); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timeline: %w", err)
	}

	return overlays, nil
}

// InvalidateTimelines removes all cached timelines for a creative
func (c *Cache) InvalidateTimelines(ctx context.Context, creativeID string) error {
	pattern := fmt.Sprintf("timeline:%s:*", creativeID)

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete timeline key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan timeline keys: %w", err)
	}

	return nil
}

// Render Job Cache Operations

// SetRenderJob caches render job metadata
func (c *Cache) SetRenderJob(ctx context.Context, job *models.RenderJob, ttl time.Duration) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal render job: %w", err)
	}

	key := fmt.Sprintf("renderjob:%s", job.ID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetRenderJob retrieves render job metadata from cache
func (c *Cache) GetRenderJob(ctx context.Context, jobID string) (*models.RenderJob, error) {
	key := fmt.Sprintf("renderjob:%s", jobID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get render job from cache: %w", err)
	}

	var job models.RenderJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal render job: %w", err)
	}

	return &job, nil
}
