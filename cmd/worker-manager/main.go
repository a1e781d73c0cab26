// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"transcript-extractor/internal/common/camunda"
	"transcript-extractor/internal/common/config"
	"transcript-extractor/internal/common/database"
	"transcript-extractor/internal/common/logger"
	"transcript-extractor/internal/common/nlp"
	"transcript-extractor/internal/common/observability"
	"transcript-extractor/internal/extractor"

	etd "transcript-extractor/internal/workers/extraction/extract-transcript-data"
)

// connectRetry retries startup pings on any failure; backing services may
// still be starting.
func connectRetry(log logger.Logger, attempts int, operationName string) *camunda.RetryConfig {
	return &camunda.RetryConfig{
		MaxRetries: attempts - 1,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Retryable:  camunda.AlwaysRetry,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     attempt,
				"maxRetries":  attempts,
				"nextRetryIn": delay.String(),
			})
		},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
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

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Redis (annotation cache) ---
	var redis *database.RedisClient
	if cfg.Annotation.CacheTTL > 0 {
		redis = database.NewRedis(cfg.Database.Redis)
		_, err = camunda.Retry(ctx, connectRetry(log, 10, "Redis connection"), "Redis connection",
			func(ctx context.Context) (interface{}, error) {
				return nil, redis.Ping(ctx)
			})
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- PostgreSQL (result store) ---
	var pg *database.PostgresClient
	var store etd.ResultStore
	if cfg.Database.Postgres.Enabled {
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres open failed", zap.Error(err))
		}
		_, err = camunda.Retry(ctx, connectRetry(log, 15, "PostgreSQL connection"), "PostgreSQL connection",
			func(ctx context.Context) (interface{}, error) {
				return nil, pg.Ping(ctx)
			})
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		pgStore := etd.NewPostgresStore(pg.DB)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("result store schema failed", zap.Error(err))
		}
		store = pgStore
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Extractor ---
	opts, err := extractor.OptionsFromConfig(cfg.Extraction)
	if err != nil {
		zapLog.Fatal("invalid extraction config", zap.Error(err))
	}
	opts = append(opts, extractor.WithLogger(log), extractor.WithObservability(obs))

	if cfg.Annotation.Endpoint != "" {
		nlpOpts := []nlp.Option{nlp.WithLogger(log)}
		if redis != nil {
			nlpOpts = append(nlpOpts, nlp.WithCache(redis, time.Duration(cfg.Annotation.CacheTTL)*time.Second))
		}
		opts = append(opts, extractor.WithAnnotator(nlp.NewClient(cfg.Annotation, nlpOpts...)))
	}
	ex := extractor.New(opts...)

	// --- Worker ---
	var workers []*camunda.CamundaWorker
	wcfg := etd.LoadConfig(cfg)
	if err := wcfg.Validate(); err != nil {
		zapLog.Fatal("invalid worker config", zap.String("taskType", etd.TaskType), zap.Error(err))
	}
	if wcfg.Enabled {
		handler := etd.NewHandler(wcfg, ex, store, log)
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      etd.TaskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       wcfg.Timeout,
		}, handler, log))
	} else {
		zapLog.Info("worker disabled", zap.String("taskType", etd.TaskType))
	}

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"zeebe": "ok"}
		status := http.StatusOK
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			checks["zeebe"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if pg != nil {
			checks["postgres"] = "ok"
			if err := pg.Ping(r.Context()); err != nil {
				checks["postgres"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		if redis != nil {
			checks["redis"] = "ok"
			if err := redis.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		checks["time"] = time.Now().Format(time.RFC3339)
		writeStatus(w, status, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing otel metrics", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
