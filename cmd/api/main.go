package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/priyanshagrawal/overlaybridge/internal/cache"
	"github.com/priyanshagrawal/overlaybridge/internal/config"
	"github.com/priyanshagrawal/overlaybridge/internal/database"
	"github.com/priyanshagrawal/overlaybridge/internal/logging"
	"github.com/priyanshagrawal/overlaybridge/internal/metrics"
	"github.com/priyanshagrawal/overlaybridge/internal/middleware"
	"github.com/priyanshagrawal/overlaybridge/internal/queue"
	"github.com/priyanshagrawal/overlaybridge/internal/storage"
	"github.com/priyanshagrawal/overlaybridge/internal/tracing"
	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// Repository is the persistence surface the handlers depend on
type Repository interface {
	Health(ctx context.Context) error
	CreateCreative(ctx context.Context, creative *models.Creative) error
	GetCreative(ctx context.Context, id string) (*models.Creative, error)
	ListCreatives(ctx context.Context, userID string, limit, offset int) ([]*models.Creative, error)
	UpdateCreative(ctx context.Context, creative *models.Creative) error
	UpdateCreativeOverlays(ctx context.Context, id string, overlays models.OverlayConfig) (int, error)
	UpdateCreativeStatus(ctx context.Context, id, status string) error
	DeleteCreative(ctx context.Context, id string) error
	CreateRenderJob(ctx context.Context, job *models.RenderJob) error
	GetRenderJob(ctx context.Context, id string) (*models.RenderJob, error)
	ListRenderJobs(ctx context.Context, creativeID string, limit, offset int) ([]*models.RenderJob, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TimelineCache is the caching surface the handlers depend on
type TimelineCache interface {
	GetTimeline(ctx context.Context, creativeID string, version int) ([]models.TimelineOverlay, error)
	SetTimeline(ctx context.Context, creativeID string, version int, overlays []models.TimelineOverlay, ttl time.Duration) error
	InvalidateTimelines(ctx context.Context, creativeID string) error
	DeleteCreative(ctx context.Context, creativeID string) error
}

// JobQueue publishes render jobs to the worker pool
type JobQueue interface {
	PublishJob(ctx context.Context, job *models.RenderJob) error
}

// AssetStorage is the object storage surface the handlers depend on
type AssetStorage interface {
	UploadStreamParallel(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

type API struct {
	cfg     *config.Config
	repo    Repository
	cache   TimelineCache
	storage AssetStorage
	queue   JobQueue
	logger  *logging.Logger
}

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

	// Initialize JWT secret from config
	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	// Initialize tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer closer.Close()
	}

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Initialize cache
	redisCache, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

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
		metricsSrv := metrics.NewServer(cfg.Metrics.Port)
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

	api := &API{
		cfg:     cfg,
		repo:    repo,
		cache:   redisCache,
		storage: storage.NewOptimizedStorage(stor, storage.DefaultPartSize),
		queue:   q,
		logger:  logger,
	}

	router := setupRouter(api)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

func setupRouter(api *API) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	// Health check
	router.GET("/health", api.healthCheck)

	// Auth
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", api.register)
		auth.POST("/login", api.login)
	}

	// Authenticated API routes
	rl := middleware.NewRateLimiter(api.cfg.Server.RateLimitRPS, api.cfg.Server.RateLimitBurst)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth())
	v1.Use(middleware.RateLimit(rl))
	{
		// Creatives
		v1.POST("/creatives", api.createCreative)
		v1.GET("/creatives", api.listCreatives)
		v1.GET("/creatives/:id", api.getCreative)
		v1.PUT("/creatives/:id", api.updateCreative)
		v1.DELETE("/creatives/:id", api.deleteCreative)

		// Timeline bridge
		v1.GET("/creatives/:id/timeline", api.getTimeline)
		v1.PUT("/creatives/:id/timeline", api.putTimeline)

		// Render jobs
		v1.POST("/creatives/:id/render", api.createRenderJob)
		v1.GET("/creatives/:id/jobs", api.listRenderJobs)
		v1.GET("/jobs/:id", api.getRenderJob)

		// Assets
		v1.POST("/assets/upload", api.uploadAsset)
	}

	return router
}
