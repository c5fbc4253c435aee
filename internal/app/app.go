package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/godilite/reputation-server/internal/config"
	"github.com/godilite/reputation-server/internal/httpapi"
	"github.com/godilite/reputation-server/internal/repository"
	"github.com/godilite/reputation-server/internal/sentiment"
	"github.com/godilite/reputation-server/internal/service"
	"github.com/godilite/reputation-server/pkg/cache"
	dbbuilder "github.com/godilite/reputation-server/pkg/database"
	"github.com/godilite/reputation-server/pkg/httpserver"
	"github.com/godilite/reputation-server/pkg/queue"
)

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	worker     *service.Worker
	httpServer *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	if err := repository.EnsureSchema(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("schema init failed: %w", err)
	}

	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	driverRepo := repository.NewDriverRepository(dbPool)
	feedbackRepo := repository.NewFeedbackRepository(dbPool)
	alertRepo := repository.NewAlertRepository(dbPool)

	reputationService := service.NewReputationService(driverRepo, logger)
	alertService := service.NewAlertService(
		alertRepo,
		cfg.AlertThreshold,
		time.Duration(cfg.AlertCooldownSecs)*time.Second,
		logger,
	)

	feedbackQueue := queue.New[service.QueuedItem](cfg.QueueMaxCapacity)
	pipeline := service.NewPipeline(
		sentiment.NewScorer(),
		feedbackQueue,
		reputationService,
		alertService,
		feedbackRepo,
		logger,
	)
	worker := service.NewWorker(pipeline, time.Duration(cfg.PollIntervalMs)*time.Millisecond, logger)

	handlers := httpapi.NewHandlers(
		pipeline,
		driverRepo,
		feedbackRepo,
		alertRepo,
		cacheClient,
		logger,
		time.Duration(cfg.CacheTTLSecs)*time.Second,
	)

	httpServer, err := httpserver.New(
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithHandler(httpapi.NewRouter(handlers, logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		worker:     worker,
		httpServer: httpServer,
	}, nil
}

// Run starts the worker and the HTTP server and blocks until a shutdown
// signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		a.worker.Run(workerCtx)
	}()

	a.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown error", zap.Error(err))
	}

	// Stop accepting ticks, then wait for the in-flight item to finish.
	stopWorker()
	select {
	case <-workerDone:
	case <-ctx.Done():
		a.logger.Warn("worker did not stop before shutdown deadline")
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			a.logger.Warn("shutdown completed but deadline exceeded")
		}
	default:
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return nil
}
