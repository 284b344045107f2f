// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"yogyatha-workers/internal/analytics"
	"yogyatha-workers/internal/applications"
	"yogyatha-workers/internal/catalog"
	"yogyatha-workers/internal/common/aws"
	"yogyatha-workers/internal/common/camunda"
	"yogyatha-workers/internal/common/config"
	"yogyatha-workers/internal/common/database"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/common/observability"
	"yogyatha-workers/internal/eligibility"
	"yogyatha-workers/internal/storage"
	"yogyatha-workers/pkg/registry"

	// Eligibility Workers (2)
	fes "yogyatha-workers/internal/workers/eligibility/find-eligible-schemes"
	sup "yogyatha-workers/internal/workers/eligibility/save-user-profile"

	// Catalog Workers (3)
	lrd "yogyatha-workers/internal/workers/catalog/list-relevant-documents"
	ms "yogyatha-workers/internal/workers/catalog/manage-scheme"
	ss "yogyatha-workers/internal/workers/catalog/search-schemes"

	// Application Workers (4)
	lta "yogyatha-workers/internal/workers/applications/list-tracked-applications"
	nas "yogyatha-workers/internal/workers/applications/notify-application-status"
	ta "yogyatha-workers/internal/workers/applications/track-application"
	uas "yogyatha-workers/internal/workers/applications/update-application-status"

	// Analytics Workers (1)
	bar "yogyatha-workers/internal/workers/analytics/build-analytics-report"
)

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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}

	ctx := context.Background()

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
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return err
		}
		return nil
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		zapLog.Fatal("postgres migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
		if err != nil {
			return err
		}
		if err := esClient.Ping(ctx); err != nil {
			return err
		}
		return esClient.EnsureIndex(ctx, cfg.Database.Elasticsearch.SchemeIndex)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Domain services ---
	store := storage.NewRedisStore(redis.Client)
	schemes := catalog.NewRepository(pg.DB)
	cached := catalog.NewCachedCatalog(schemes, store, config.GetSeconds(cfg.Eligibility.CatalogCacheTTL), log)
	index := catalog.NewSearchIndex(esClient.Client, cfg.Database.Elasticsearch.SchemeIndex)
	profiles := storage.NewProfileRepository(store, config.GetSeconds(cfg.Eligibility.ProfileTTL))
	tracked := applications.NewRepository(pg.DB)

	var (
		searchRecorder eligibility.SearchRecorder
		trackRecorder  ta.TrackRecorder
		events         *analytics.Recorder
	)
	if cfg.Analytics.Enabled {
		events = analytics.NewRecorder(redis.Client, analytics.RecorderConfig{
			KeyPrefix:   cfg.Analytics.KeyPrefix,
			MaxFailures: cfg.Analytics.BreakerMaxFailures,
			OpenTimeout: config.GetDuration(cfg.Analytics.BreakerOpenTimeout),
		}, log)
		searchRecorder = events
		trackRecorder = events
	}
	engine := eligibility.NewEngine(searchRecorder, log,
		eligibility.WithRecordTimeout(config.GetDuration(cfg.Analytics.Timeout)),
	)

	var (
		emailSender nas.EmailSender
		smsSender   nas.SMSSender
	)
	if cfg.Notifications.Email.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		emailSender = ses
	}
	if cfg.Notifications.SMS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SMS.SenderID)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
		smsSender = sns
	}

	zapLog.Info("All domain services initialized")

	// --- Register Workers ---
	client := zeebe.GetClient()
	var (
		workers []worker.JobWorker
		started []string
	)
	start := func(taskType string, handler camunda.HandlerFunc) {
		if w := camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, zapLog); w != nil {
			workers = append(workers, w)
			started = append(started, taskType)
		}
	}
	timeoutOf := func(taskType string, fallback time.Duration) time.Duration {
		if ms := config.GetWorkerConfig(cfg, taskType).Timeout; ms > 0 {
			return config.GetDuration(ms)
		}
		return fallback
	}

	// --- 1. Eligibility Workers (2) ---
	{
		c := fes.LoadConfig()
		c.Timeout = timeoutOf(fes.TaskType, c.Timeout)
		start(fes.TaskType, fes.NewHandler(c, cached, profiles, engine, obs, log).Handle)
	}
	{
		c := sup.LoadConfig()
		c.Timeout = timeoutOf(sup.TaskType, c.Timeout)
		start(sup.TaskType, sup.NewHandler(c, profiles, log).Handle)
	}

	// --- 2. Catalog Workers (3) ---
	{
		c := ms.LoadConfig()
		c.Timeout = timeoutOf(ms.TaskType, c.Timeout)
		start(ms.TaskType, ms.NewHandler(c, schemes, cached, index, log).Handle)
	}
	{
		c := ss.LoadConfig()
		c.Timeout = timeoutOf(ss.TaskType, c.Timeout)
		start(ss.TaskType, ss.NewHandler(c, index, log).Handle)
	}
	{
		c := lrd.LoadConfig()
		c.Timeout = timeoutOf(lrd.TaskType, c.Timeout)
		start(lrd.TaskType, lrd.NewHandler(c, log).Handle)
	}

	// --- 3. Application Workers (4) ---
	{
		c := ta.LoadConfig()
		c.Timeout = timeoutOf(ta.TaskType, c.Timeout)
		c.AnalyticsTimeout = config.GetDuration(cfg.Analytics.Timeout)
		start(ta.TaskType, ta.NewHandler(c, tracked, schemes, trackRecorder, log).Handle)
	}
	{
		c := uas.LoadConfig()
		c.Timeout = timeoutOf(uas.TaskType, c.Timeout)
		start(uas.TaskType, uas.NewHandler(c, tracked, log).Handle)
	}
	{
		c := lta.LoadConfig()
		c.Timeout = timeoutOf(lta.TaskType, c.Timeout)
		start(lta.TaskType, lta.NewHandler(c, tracked, log).Handle)
	}
	{
		c := nas.LoadConfig()
		c.Timeout = timeoutOf(nas.TaskType, c.Timeout)
		c.EmailEnabled = cfg.Notifications.Email.Enabled
		c.SMSEnabled = cfg.Notifications.SMS.Enabled
		start(nas.TaskType, nas.NewHandler(c, emailSender, smsSender, log).Handle)
	}

	// --- 4. Analytics Workers (1) ---
	if events != nil {
		c := bar.LoadConfig()
		c.Timeout = timeoutOf(bar.TaskType, c.Timeout)
		start(bar.TaskType, bar.NewHandler(c, events, log).Handle)
	} else {
		zapLog.Info("analytics disabled, report worker not started", zap.String("taskType", bar.TaskType))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))
	checkRegistry(cfg.App.RegistryPath, started, zapLog)

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pg.Ping(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "postgres unavailable")
			return
		}
		if err := redis.Ping(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
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

	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping otel meter provider", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

// checkRegistry warns about running task types the activity registry does not describe.
func checkRegistry(path string, taskTypes []string, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", zap.String("path", path), zap.Error(err))
		return
	}
	if missing := reg.Missing(taskTypes); len(missing) > 0 {
		log.Warn("task types missing from activity registry", zap.Strings("taskTypes", missing))
		return
	}
	log.Info("activity registry checked", zap.String("version", reg.Version), zap.Int("activities", len(reg.Activities)))
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
