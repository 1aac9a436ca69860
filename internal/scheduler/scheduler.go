package scheduler

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// JobScheduler dispatches render jobs to the broker in priority order. Its
// main duty is crash recovery: jobs persisted as queued but never published,
// or orphaned by a dead worker, get re-dispatched from the database.
type JobScheduler struct {
	queue         *PriorityQueue
	mu            sync.RWMutex
	maxConcurrent int
	activeJobs    int
	repo          Repository
	publisher     JobPublisher
	ctx           context.Context
	cancel        context.CancelFunc
}

// Repository defines the interface for render job persistence
type Repository interface {
	GetPendingRenderJobs(ctx context.Context, limit int) ([]*models.RenderJob, error)
	UpdateRenderJobStatus(ctx context.Context, id, status string) error
}

// JobPublisher defines the interface for publishing render jobs to the broker
type JobPublisher interface {
	PublishJob(ctx context.Context, job *models.RenderJob) error
}

// NewScheduler creates a new render job scheduler
func NewScheduler(repo Repository, publisher JobPublisher, maxConcurrent int) *JobScheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &JobScheduler{
		queue:         &PriorityQueue{},
		maxConcurrent: maxConcurrent,
		repo:          repo,
		publisher:     publisher,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start begins the scheduler
func (s *JobScheduler) Start() error {
	heap.Init(s.queue)

	// Recover jobs that were queued before a restart
	if err := s.loadPendingJobs(); err != nil {
		return fmt.Errorf("failed to load pending render jobs: %w", err)
	}

	go s.scheduleLoop()

	log.Info().Msg("Render job scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *JobScheduler) Stop() {
	s.cancel()
	log.Info().Msg("Render job scheduler stopped")
}

// ScheduleJob adds a render job to the scheduling queue
func (s *JobScheduler) ScheduleJob(job *models.RenderJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &QueueItem{
		Job:       job,
		Priority:  job.Priority,
		Timestamp: time.Now(),
	}

	heap.Push(s.queue, item)
	return nil
}

// loadPendingJobs loads queued render jobs from the database
func (s *JobScheduler) loadPendingJobs() error {
	jobs, err := s.repo.GetPendingRenderJobs(s.ctx, 1000)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if err := s.ScheduleJob(job); err != nil {
			log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to schedule render job")
		}
	}

	log.Info().Int("count", len(jobs)).Msg("Loaded pending render jobs")
	return nil
}

// scheduleLoop is the main scheduling loop
func (s *JobScheduler) scheduleLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.processQueue()
		}
	}
}

// processQueue publishes jobs from the priority queue to the broker
func (s *JobScheduler) processQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.activeJobs < s.maxConcurrent && s.queue.Len() > 0 {
		item := heap.Pop(s.queue).(*QueueItem)

		if err := s.publisher.PublishJob(s.ctx, item.Job); err != nil {
			log.Error().Err(err).Str("job_id", item.Job.ID).Msg("Failed to publish render job")
			// Re-queue the job
			heap.Push(s.queue, item)
			break
		}

		if err := s.repo.UpdateRenderJobStatus(s.ctx, item.Job.ID, models.RenderJobStatusQueued); err != nil {
			log.Error().Err(err).Str("job_id", item.Job.ID).Msg("Failed to update render job status")
		}

		s.activeJobs++
		log.Info().
			Str("job_id", item.Job.ID).
			Int("priority", item.Priority).
			Int("active", s.activeJobs).
			Int("max", s.maxConcurrent).
			Msg("Dispatched render job")
	}
}

// JobCompleted notifies the scheduler that a render job has finished
func (s *JobScheduler) JobCompleted(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeJobs > 0 {
		s.activeJobs--
	}
}

// GetQueueDepth returns the current queue depth
func (s *JobScheduler) GetQueueDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queue.Len()
}

// GetActiveJobs returns the number of active jobs
func (s *JobScheduler) GetActiveJobs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.activeJobs
}

// PriorityQueue implements a priority queue for render jobs
type PriorityQueue []*QueueItem

// QueueItem represents a render job in the priority queue
type QueueItem struct {
	Job       *models.RenderJob
	Priority  int
	Timestamp time.Time
	Index     int
}

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	// Higher priority first
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority > pq[j].Priority
	}
	// If same priority, FIFO (earlier timestamp first)
	return pq[i].Timestamp.Before(pq[j].Timestamp)
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*QueueItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}
