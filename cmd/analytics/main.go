package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/config"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/handler"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/cache"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/client"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/observability"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/resilience"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("dashboard_window_days", cfg.DashboardWindowDays),
		zap.Int("aggregation_workers", cfg.AggregationWorkers),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "banking-analytics")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	snapshotCache := cache.New[*domain.Snapshot](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("snapshot-sources")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Source clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	transactionsClient := client.NewTransactionsClient(httpClient, cfg.TransactionsAPIURL, cb, resilienceCfg)
	accountsClient := client.NewAccountsClient(httpClient, cfg.AccountsAPIURL, cb, resilienceCfg)
	usersClient := client.NewUsersClient(httpClient, cfg.UsersAPIURL, cb, resilienceCfg)

	// --- Service ---
	svc := service.NewAnalyticsService(
		transactionsClient,
		accountsClient,
		usersClient,
		snapshotCache,
		bulkhead,
		metrics,
		logger,
		service.Options{
			WindowDays:   cfg.DashboardWindowDays,
			RankingLimit: cfg.RankingLimit,
			Workers:      cfg.AggregationWorkers,
		},
	)

	// --- Router ---
	router := handler.NewRouter(svc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
