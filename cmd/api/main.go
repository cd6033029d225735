package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicops/leakwatch/internal/adapters/cache"
	"github.com/clinicops/leakwatch/internal/adapters/source"
	"github.com/clinicops/leakwatch/internal/api/handlers"
	"github.com/clinicops/leakwatch/internal/api/middleware"
	"github.com/clinicops/leakwatch/internal/api/routes"
	"github.com/clinicops/leakwatch/internal/application/normalize"
	"github.com/clinicops/leakwatch/internal/application/services"
	"github.com/clinicops/leakwatch/internal/domain/providers"
	"github.com/clinicops/leakwatch/internal/domain/repositories"
	"github.com/clinicops/leakwatch/internal/infrastructure/clients/postgres"
	"github.com/clinicops/leakwatch/internal/infrastructure/clients/redis"
	"github.com/clinicops/leakwatch/internal/infrastructure/clients/sheets"
	"github.com/clinicops/leakwatch/internal/infrastructure/observability"
	"github.com/clinicops/leakwatch/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("leakwatch-api", cfg.Env)

	// Initialize Redis client; the application works without caching
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; running without cache")
	} else {
		defer redisClient.Close()
		log.Info().Msg("redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Select the snapshot backend
	var snapshots repositories.SnapshotRepository
	switch cfg.Source.Backend {
	case "postgres":
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()
		snapshots = source.NewPostgresAdapter(pgClient)
		log.Info().Msg("using postgres snapshot backend")
	case "sheets":
		snapshots = source.NewSheetsAdapter(sheets.NewClient(), cfg.Sheets)
		log.Info().Msg("using sheets snapshot backend")
	default:
		log.Fatal().Str("backend", cfg.Source.Backend).Msg("unknown source backend")
	}

	// Wrap with snapshot caching if Redis is available
	if cacheProvider != nil {
		snapshots = source.NewCachedSource(snapshots, cacheProvider, cfg.Source.SnapshotTTLSeconds)
		log.Info().Int("ttl_seconds", cfg.Source.SnapshotTTLSeconds).Msg("snapshot caching enabled")
	}

	// Initialize services
	normalizer := normalize.NewNormalizer(normalize.NewRioplatenseLocale())
	reportService := services.NewReportService(snapshots, normalizer)
	callCenterService := services.NewCallCenterService(snapshots, normalizer)

	// Initialize handlers
	reportHandler := handlers.NewReportHandler(reportService)
	callCenterHandler := handlers.NewCallCenterHandler(callCenterService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	// Set up router
	router := routes.NewRouter(reportHandler, callCenterHandler, cacheMiddleware)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
