package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/content-modeling-api/internal/api"
	"github.com/content-modeling-api/internal/bulk"
	"github.com/content-modeling-api/internal/config"
	"github.com/content-modeling-api/internal/database"
	"github.com/content-modeling-api/internal/repository"
	"github.com/content-modeling-api/internal/service"
	"github.com/content-modeling-api/internal/storage"
	"github.com/content-modeling-api/internal/storage/fs"
	"github.com/content-modeling-api/internal/storage/s3"
	"github.com/content-modeling-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info().Msg("Starting Content Modeling API server...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize blob storage
	blobs, err := openBlobStore(context.Background(), cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Media.Backend).Msg("Failed to initialize media storage")
	}

	registry, err := bulk.LoadRegistry(cfg.Content.BulkActionsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load bulk actions")
	}

	// Initialize repositories and services
	repos := repository.New(db)
	services := service.NewServices(repos, blobs, registry, cfg, log)

	// Start scheduled publisher
	if cfg.Scheduler.Enabled {
		services.Scheduler.StartProcessor(context.Background())
		log.Info().Dur("interval", cfg.Scheduler.Interval).Msg("Scheduled publisher enabled")
	}

	// Initialize router
	router := api.NewRouter(services, cfg, db.HealthCheck, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop scheduled publisher
	services.Scheduler.StopProcessor()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

func openBlobStore(ctx context.Context, cfg config.MediaConfig) (storage.BlobStore, error) {
	switch cfg.Backend {
	case "s3":
		return s3.New(ctx, cfg.S3)
	case "fs", "":
		return fs.New(cfg.FSDir)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}
