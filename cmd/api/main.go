package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/config"
	httpHandler "github.com/Godzilaa/Hostel-mess-attendance/internal/adapter/http/handler"
	pgStorage "github.com/Godzilaa/Hostel-mess-attendance/internal/adapter/storage/postgres"
	redisStorage "github.com/Godzilaa/Hostel-mess-attendance/internal/adapter/storage/redis"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/service"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Mess Attendance Ledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool and apply schema
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if err := pgStorage.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Initialize repositories
	studentRepo := pgStorage.NewStudentRepo(pool)
	redemptionRepo := pgStorage.NewRedemptionRepo(pool)

	// Health checkers
	healthCheckers := []ports.HealthChecker{pgStorage.NewHealthCheck(pool)}

	// Redis is optional: without it the service runs with caching and
	// rate limiting disabled.
	var statsCache ports.StatsCache
	var rateLimitStore *redisStorage.RateLimitStore
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		statsCache = redisStorage.NewStatsCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled, stats caching and rate limiting are off")
	}

	// Streak timezone
	loc := time.Local
	if cfg.Stats.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Stats.Timezone)
		if err != nil {
			log.Fatal().Err(err).Str("timezone", cfg.Stats.Timezone).Msg("Invalid stats timezone")
		}
	}

	// Initialize business services
	ledgerSvc := service.NewLedgerService(studentRepo, redemptionRepo, statsCache, log)
	statsSvc := service.NewStatsService(studentRepo, redemptionRepo, statsCache, cfg.Stats.CacheTTL, loc, log)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		StatsSvc:       statsSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
