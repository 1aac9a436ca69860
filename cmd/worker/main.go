package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/priyanshagrawal/overlaybridge/internal/config"
	"github.com/priyanshagrawal/overlaybridge/internal/database"
	"github.com/priyanshagrawal/overlaybridge/internal/logging"
	"github.com/priyanshagrawal/overlaybridge/internal/metrics"
	"github.com/priyanshagrawal/overlaybridge/internal/queue"
	"github.com/priyanshagrawal/overlaybridge/internal/render"
	"github.com/priyanshagrawal/overlaybridge/internal/scheduler"
	"github.com/priyanshagrawal/overlaybridge/internal/storage"
	"github.com/priyanshagrawal/overlaybridge/internal/webhook"
	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Initialize storage
	stor, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize queue
	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	if err := q.SetupDeadLetterQueue(); err != nil {
		logger.Fatalf("Failed to set up dead letter queue: %v", err)
	}

	// Start metrics server
	if cfg.Metrics.Enabled {
		metricsSrv := metrics.NewServer(cfg.Metrics.Port + 1)
		go func() {
			if err := metricsSrv.Start(); err != nil {
				logger.ErrorWithErr("Metrics server stopped", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsSrv.Shutdown(ctx)
		}()
	}

	notifier := webhook.NewNotifier(cfg.Webhook.Secret, cfg.Webhook.MaxRetries, cfg.Webhook.Timeout)
	renderService := render.NewService(repo, stor, notifier, logger)

	// Re-dispatch jobs that were queued before a restart but never consumed
	sched := scheduler.NewScheduler(repo, q, cfg.Queue.MaxConcurrentJobs)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down worker gracefully...")
		cancel()
	}()

	// Job handler
	jobHandler := func(job *models.RenderJob) error {
		jobLog := logger.WithJobID(job.ID).WithCreativeID(job.CreativeID)
		jobLog.Info("Processing render job")
		defer sched.JobCompleted(job.ID)

		if err := renderService.ProcessJob(ctx, job); err != nil {
			jobLog.ErrorWithErr("Failed to process render job", err)

			// Hand persistent failures to the retry queue
			if rErr := q.PublishToRetryQueue(ctx, job, job.RetryCount); rErr != nil {
				jobLog.ErrorWithErr("Failed to queue retry", rErr)
			}
			return err
		}

		jobLog.Info("Render job processed")
		return nil
	}

	// Track queue depths for the dashboard
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if depth, err := q.GetQueueDepth(); err == nil {
					metrics.RenderQueueDepth.Set(float64(depth))
				}
				if depth, err := q.GetDLQDepth(); err == nil {
					metrics.RenderDLQDepth.Set(float64(depth))
				}
			}
		}
	}()

	// DRAIN_DLQ=true requeues dead-lettered jobs with a fresh retry budget
	// instead of consuming the work queue. Used after fixing the fault that
	// parked them.
	if os.Getenv("DRAIN_DLQ") == "true" {
		logger.Info("Draining dead letter queue...")
		err := q.ConsumeDLQ(ctx, func(job *models.RenderJob, reason string) error {
			logger.WithJobID(job.ID).Infof("Requeuing dead-lettered job (was: %s)", reason)
			return q.RetryFromDLQ(ctx, job)
		})
		if err != nil {
			logger.Fatalf("Failed to drain dead letter queue: %v", err)
		}
		<-ctx.Done()
		logger.Info("DLQ drain stopped")
		return
	}

	// Start consuming jobs
	logger.Info("Worker started, waiting for render jobs...")
	if err := q.ConsumeJobs(ctx, jobHandler); err != nil {
		logger.Fatalf("Failed to consume jobs: %v", err)
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("Worker stopped")
}
