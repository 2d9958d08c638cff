package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/khabarhub/newsdesk/internal/api"
	"github.com/khabarhub/newsdesk/internal/cache"
	"github.com/khabarhub/newsdesk/internal/config"
	"github.com/khabarhub/newsdesk/internal/images"
	"github.com/khabarhub/newsdesk/internal/logger"
	"github.com/khabarhub/newsdesk/internal/middleware"
	"github.com/khabarhub/newsdesk/internal/newsstore"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting newsdesk...")

	// Projection cache; fall back to in-memory when Redis is unreachable
	var projCache cache.Cache
	projCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPrefix)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory projection cache")
		projCache = cache.NewMockCache()
	}
	defer func() {
		if err := projCache.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache")
		}
	}()

	// Aggregate repository
	repo, err := newsstore.NewFileRepository(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize aggregate repository")
	}

	// Image resolver; optional when no bucket is configured
	var resolver newsstore.ImageResolver
	if cfg.R2Endpoint != "" {
		resolver, err = images.NewS3Resolver(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize image resolver")
		}
	} else {
		log.Warn().Msg("No R2 endpoint configured, storing image references as-is")
	}

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	api.SetupRoutes(app, cfg, projCache, repo, resolver)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
