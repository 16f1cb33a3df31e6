package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dailysketch/internal/common/db"
	"dailysketch/internal/common/storage"
	retentionRepo "dailysketch/internal/retention/repository"
	retention "dailysketch/internal/retention/service"
	seedRepo "dailysketch/internal/seed/repository"
	seed "dailysketch/internal/seed/service"
	"dailysketch/pkg/utils/contextkey"
	"dailysketch/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/retention_job.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	cronSpec := flag.String("cron", "", "Cron schedule; empty runs the job once and exits")
	flag.Parse()

	if err := run(*configPath, *cronSpec); err != nil {
		fmt.Fprintf(os.Stderr, "retention-job: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, cronSpec string) error {
	_ = godotenv.Load()

	appCfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		return fmt.Errorf("init logger failed: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	database, err := db.NewPostgreSQLWithConfig(&appCfg.Database)
	if err != nil {
		return fmt.Errorf("init database failed: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	objStorage, err := storage.NewMinIOStorage(appCfg.MinIO)
	if err != nil {
		return fmt.Errorf("init object storage failed: %w", err)
	}

	if err := startupChecks(database, objStorage, appCfg.Retention.Bucket); err != nil {
		return err
	}

	checker, err := retentionRepo.NewEntitlementChecker(database, appCfg.Retention.Entitlement)
	if err != nil {
		return err
	}
	submissionRepo := retentionRepo.NewSubmissionRepository(database)
	job := retention.NewRetentionJob(submissionRepo, checker, objStorage, retention.Options{
		Bucket:    appCfg.Retention.Bucket,
		PageSize:  appCfg.Retention.PageSize,
		ChunkSize: appCfg.Retention.ChunkSize,
	})

	var seeder *seed.PromptSeeder
	if appCfg.Seed.Enabled {
		seeder = seed.NewPromptSeeder(seedRepo.NewPromptRepository(database), appCfg.Seed.Tiers, nil)
	}

	if cronSpec == "" {
		return runOnce(context.Background(), job, seeder)
	}
	return runScheduled(cronSpec, appCfg.Server, job, seeder)
}

// startupChecks verifies both stores are reachable before the first run.
func startupChecks(database db.Database, objStorage storage.ObjectStorage, bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.Ping(ctx); err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}
	exists, err := objStorage.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", bucket)
	}
	return nil
}

// runOnce executes one cleanup pass and, when enabled, the seeding pass.
func runOnce(ctx context.Context, job *retention.RetentionJob, seeder *seed.PromptSeeder) error {
	ctx = context.WithValue(ctx, contextkey.RunID, uuid.NewString())

	if _, err := job.Run(context.WithValue(ctx, contextkey.Job, "retention")); err != nil {
		logger.Error(ctx, "retention run failed", zap.Error(err))
		return err
	}
	if seeder != nil {
		if _, err := seeder.Seed(context.WithValue(ctx, contextkey.Job, "seed")); err != nil {
			logger.Error(ctx, "prompt seeding failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// runScheduled keeps the process alive, runs the job on the cron schedule
// with overlap protection, and serves /healthz and /metrics.
func runScheduled(cronSpec string, serverCfg ServerConfig, job *retention.RetentionJob, seeder *seed.PromptSeeder) error {
	cronLog := newCronLogger()
	scheduler := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLog),
		cron.Recover(cronLog),
	))

	_, err := scheduler.AddFunc(cronSpec, func() {
		// A failed scheduled run is logged and retried at the next tick;
		// the single-run exit contract applies only to one-shot mode.
		_ = runOnce(context.Background(), job, seeder)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", cronSpec, err)
	}

	httpServer := buildOpsServer(serverCfg)
	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "ops server started", zap.String("addr", serverCfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	scheduler.Start()
	logger.Info(context.Background(), "scheduler started", zap.String("schedule", cronSpec))

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "ops server stopped", zap.Error(err))
			return err
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	// Let an in-flight run finish before exiting.
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "ops server shutdown failed", zap.Error(err))
	}
	return nil
}

func buildOpsServer(cfg ServerConfig) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// cronLogger adapts the cron logging interface to zap.
type cronLogger struct{}

func newCronLogger() cronLogger {
	return cronLogger{}
}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Info(context.Background(), msg, zap.Any("details", keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error(context.Background(), msg, zap.Error(err), zap.Any("details", keysAndValues))
}
