// Command api is the TrainEasy API server.
//
// Usage:
//
//	traineasy-api
//	API_PORT=8080 traineasy-api

// @title TrainEasy API
// @version 1.0.0
// @description Fitness tracking backend: water, meals, measurements, weight, admin content, and timezone-aware push reminders triggered by an external scheduler.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey CronSecret
// @in header
// @name Authorization
// @securityDefinitions.apikey AdminSecret
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/power2u/traineasy-web/internal/api"
	"github.com/power2u/traineasy-web/internal/api/handler"
	"github.com/power2u/traineasy-web/internal/cache"
	"github.com/power2u/traineasy-web/internal/catalog"
	"github.com/power2u/traineasy-web/internal/config"
	"github.com/power2u/traineasy-web/internal/db"
	"github.com/power2u/traineasy-web/internal/listener"
	"github.com/power2u/traineasy-web/internal/maintenance"
	"github.com/power2u/traineasy-web/internal/notifications"
	"github.com/power2u/traineasy-web/internal/profile"
	"github.com/power2u/traineasy-web/internal/relay"
	"github.com/power2u/traineasy-web/internal/tracking"

	_ "github.com/power2u/traineasy-web/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Zone for users without a valid timezone
	if err := notifications.SetDefaultZone(cfg.DefaultTimezone); err != nil {
		logger.Error("Invalid default timezone", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Metrics registry shared by the job runner and the HTTP middleware
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Push delivery (disabled without FIREBASE_CREDENTIALS_FILE)
	fcmSender, err := notifications.NewFCMSender(ctx, cfg.FCMCredentialsFile, logger)
	if err != nil {
		logger.Error("Failed to initialize FCM", "error", err)
		os.Exit(1)
	}
	if fcmSender == nil {
		logger.Warn("FCM disabled (no FIREBASE_CREDENTIALS_FILE); job runs will report every due user as failed")
	}

	store := notifications.NewPGStore(pool)
	templates := notifications.NewTemplates(store, appCache, logger)
	runner := notifications.NewRunner(store, fcmSender, templates, logger,
		notifications.WithMetrics(notifications.NewMetrics(reg)))

	// Browser notification relay: Redis when configured, else process memory
	var relayStore relay.Store = relay.NewMemoryStore()
	if cfg.RedisURL != "" {
		rs, err := relay.NewRedisStore(cfg.RedisURL, logger)
		if err != nil {
			logger.Error("Failed to configure Redis relay store", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		if err := rs.Ping(ctx); err != nil {
			logger.Warn("Redis unreachable at startup, relay calls will fail until it recovers", "error", err)
		}
		relayStore = rs
		logger.Info("Relay queue backed by Redis")
	}

	// Start LISTEN/NOTIFY consumer for admin broadcasts
	broadcasts := listener.NewProcessor(store, runner, logger)
	go listener.Start(ctx, cfg.DatabaseURL, broadcasts, logger)

	// Start maintenance tickers (retention purge, broadcast catch-up)
	go maintenance.Start(ctx, pool, broadcasts, maintenance.Config{
		CleanupInterval: cfg.CleanupInterval,
		CatchUpInterval: cfg.CatchUpInterval,
		LogRetention:    cfg.LogRetention,
		TokenRetention:  cfg.TokenRetention,
	}, logger)

	// Create router
	router := api.NewRouter(handler.Deps{
		DB:            pool,
		Cache:         appCache,
		Jobs:          runner,
		Templates:     store,
		TemplateCache: templates,
		Relay:         relay.NewService(relayStore, cfg.RelayQueueCapacity),
		Tracking:      tracking.New(pool),
		Catalog:       catalog.New(pool, appCache),
		Profile:       profile.New(pool),
		Logger:        logger,
	}, cfg, reg)

	// Create HTTP server. Job runs walk every user, so writes get more room
	// than reads.
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting TrainEasy API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
