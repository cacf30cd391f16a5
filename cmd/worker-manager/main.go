// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"costume-studio/internal/artifacts"
	"costume-studio/internal/common/camunda"
	"costume-studio/internal/common/config"
	"costume-studio/internal/common/database"
	"costume-studio/internal/common/gemini"
	commonhttp "costume-studio/internal/common/http"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/common/observability"
	"costume-studio/internal/studio/pipeline"
	"costume-studio/pkg/registry"

	// Design
	gd "costume-studio/internal/workers/design/generate-design"

	// Garment
	egi "costume-studio/internal/workers/garment/edit-garment-image"
	gga "costume-studio/internal/workers/garment/generate-garment-asset"

	// Fitting
	afc "costume-studio/internal/workers/fitting/analyze-fit-compatibility"
	gst "costume-studio/internal/workers/fitting/generate-stress-test-video"
	gvf "costume-studio/internal/workers/fitting/generate-virtual-fit"

	// Media
	av "costume-studio/internal/workers/media/analyze-video"
	ta "costume-studio/internal/workers/media/transcribe-audio"
)

// jobTimeoutMargin keeps the broker lease longer than the handler deadline.
const jobTimeoutMargin = 30 * time.Second

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "json")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("profile", cfg.GenAI.Profile),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Activity registry ---
	reg := registry.DefaultRegistry()
	if cfg.Registry.Path != "" {
		reg, err = registry.LoadRegistry(cfg.Registry.Path)
		if err != nil {
			zapLog.Fatal("activity registry load failed", zap.Error(err))
		}
	}
	zapLog.Info("Activity registry loaded",
		zap.String("version", reg.Version),
		zap.Int("activities", len(reg.Activities)),
	)

	// --- Generative backend ---
	httpClient := commonhttp.NewClient(config.GetDuration(cfg.GenAI.Timeout))
	genClient, err := gemini.New(ctx, gemini.Config{
		APIKey:     cfg.GenAI.APIKey,
		Profile:    cfg.GenAI.Profile,
		Overrides:  cfg.GenAI.Models,
		HTTPClient: httpClient.HTTPClient(),
	})
	if err != nil {
		zapLog.Fatal("genai client init failed", zap.Error(err))
	}

	pipelineOpts, err := pipeline.ConfigOptions(cfg.Pipeline)
	if err != nil {
		zapLog.Fatal("invalid pipeline config", zap.Error(err))
	}
	pipelineOpts = append(pipelineOpts, pipeline.WithTracer(obs.Tracer("costume-studio/pipeline")))
	studio := pipeline.New(genClient, log, pipelineOpts...)

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	ledger := database.NewRunLedger(pg.GetDB())
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	store := artifacts.NewStore(
		redis.GetClient(),
		cfg.Artifacts.KeyPrefix,
		time.Duration(cfg.Artifacts.TTL)*time.Second,
	).WithRecorder(obs)
	zapLog.Info("Redis connected successfully")

	// --- Register workers ---
	zc := zeebe.GetClient()
	var workers []*camunda.CamundaWorker
	start := func(taskType string, handlerTimeout time.Duration, handler camunda.JobHandler) {
		if w := startWorker(zc, cfg, taskType, handlerTimeout, handler, log, obs); w != nil {
			workers = append(workers, w)
		}
	}

	{
		c := gd.LoadConfig(reg)
		start(gd.TaskType, c.Timeout, gd.NewHandler(c, studio, store, ledger, log))
	}
	{
		c := gga.LoadConfig(reg)
		start(gga.TaskType, c.Timeout, gga.NewHandler(c, studio, store, ledger, log))
	}
	{
		c := egi.LoadConfig(reg)
		start(egi.TaskType, c.Timeout, egi.NewHandler(c, studio, store, ledger, log))
	}
	{
		c := gvf.LoadConfig(reg)
		start(gvf.TaskType, c.Timeout, gvf.NewHandler(c, studio, store, ledger, log))
	}
	{
		c := afc.LoadConfig(reg)
		start(afc.TaskType, c.Timeout, afc.NewHandler(c, studio, store, ledger, log))
	}
	{
		c := gst.LoadConfig(reg)
		start(gst.TaskType, c.Timeout, gst.NewHandler(c, studio, httpClient, store, ledger, log))
	}
	{
		c := ta.LoadConfig(reg)
		start(ta.TaskType, c.Timeout, ta.NewHandler(c, studio, store, ledger, log))
	}
	{
		c := av.LoadConfig(reg)
		start(av.TaskType, c.Timeout, av.NewHandler(c, studio, store, ledger, log))
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr: cfg.Server.Address,
		Handler: newHealthMux(map[string]readinessCheck{
			"zeebe":    zeebe.HealthCheck,
			"postgres": pg.Ping,
			"redis":    redis.Ping,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop()
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// startWorker opens a job worker unless it is disabled in config. The broker
// lease is at least the handler timeout plus jobTimeoutMargin.
func startWorker(
	client zbc.Client,
	cfg *config.Config,
	taskType string,
	handlerTimeout time.Duration,
	handler camunda.JobHandler,
	log logger.Logger,
	obs *observability.Observability,
) *camunda.CamundaWorker {
	if !config.IsWorkerEnabled(cfg, taskType) {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	wcfg := config.GetWorkerConfig(cfg, taskType)
	return camunda.NewWorker(client, taskType, camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       jobTimeout(config.GetDuration(wcfg.Timeout), handlerTimeout),
	}, handler, log, obs)
}

func jobTimeout(configured, handlerTimeout time.Duration) time.Duration {
	if floor := handlerTimeout + jobTimeoutMargin; configured < floor {
		return floor
	}
	return configured
}
