package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawshelf/service-petphoto/internal/application"
	"github.com/pawshelf/service-petphoto/internal/config"
	"github.com/pawshelf/service-petphoto/internal/database"
	"github.com/pawshelf/service-petphoto/internal/events"
	"github.com/pawshelf/service-petphoto/internal/handler"
	"github.com/pawshelf/service-petphoto/internal/health"
	"github.com/pawshelf/service-petphoto/internal/logger"
	"github.com/pawshelf/service-petphoto/internal/middleware"
	"github.com/pawshelf/service-petphoto/internal/repository"
	"github.com/pawshelf/service-petphoto/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.AppEnv, "service-petphoto")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-petphoto",
		zap.String("port", cfg.Port),
		zap.String("photo_storage_path", cfg.Photo.StoragePath),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.PetModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DB.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize photo storage
	photoStore, err := storage.NewPhotoStore(cfg.Photo.StoragePath)
	if err != nil {
		log.Fatal("failed to initialize photo storage", zap.Error(err))
	}

	// Initialize Kafka producer
	producer := events.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	// Initialize repository and application services
	petRepo := repository.NewGormPetRepository(db)
	petService := application.NewPetService(petRepo, log)
	photoService := application.NewPhotoService(petRepo, photoStore, producer, cfg.Photo.MaxUploadBytes, log)

	// Initialize and start the owner event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.Kafka.GroupPrefix + "petphoto-service"
	ownerConsumer := events.NewOwnerEventConsumer(cfg.Kafka.Brokers, groupID, photoService, log)
	defer func() { _ = ownerConsumer.Close() }()

	go func() {
		log.Info("starting owner event consumer")
		if err := ownerConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("owner event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	petHandler := handler.NewPetHandler(petService)
	photoHandler := handler.NewPhotoHandler(photoService)
	adminHandler := handler.NewAdminPetHandler(petService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-petphoto")
	healthHandler.RegisterRoutes(router)

	// Register routes
	petHandler.RegisterRoutes(&router.RouterGroup)
	photoHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-petphoto...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-petphoto stopped")
}
