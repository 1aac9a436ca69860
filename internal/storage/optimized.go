package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

const (
	// Default part size for multipart uploads (10MB)
	DefaultPartSize = 10 * 1024 * 1024

	// Minimum part size for multipart uploads (5MB)
	MinPartSize = 5 * 1024 * 1024

	// Maximum number of concurrent parts
	MaxConcurrentParts = 10
)

// OptimizedStorage extends Storage with parallel transfer for large video
// assets. Graphics and voiceover tracks are small enough for the plain path.
type OptimizedStorage struct {
	*Storage
	partSize           int64
	maxConcurrentParts int
}

// NewOptimizedStorage creates a new optimized storage instance
func NewOptimizedStorage(storage *Storage, partSize int64) *OptimizedStorage {
	if partSize < MinPartSize {
		partSize = DefaultPartSize
	}

	return &OptimizedStorage{
		Storage:            storage,
		partSize:           partSize,
		maxConcurrentParts: MaxConcurrentParts,
	}
}

// UploadStreamParallel uploads a stream using multipart upload for large sizes
func (s *OptimizedStorage) UploadStreamParallel(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{
		ContentType: contentType,
	}

	if size >= s.partSize {
		opts.PartSize = uint64(s.partSize)
		opts.NumThreads = uint(s.maxConcurrentParts)
	}

	_, err := s.client.PutObject(ctx, s.bucketName, key, reader, size, opts)
	if err != nil {
		return fmt.Errorf("failed to upload stream: %w", err)
	}

	return nil
}
