package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkim/aquamarket-backend/config"
	"github.com/dkim/aquamarket-backend/internal/app/controller"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/internal/app/service"
	"github.com/dkim/aquamarket-backend/internal/db"
	"github.com/dkim/aquamarket-backend/internal/middleware"
	"github.com/dkim/aquamarket-backend/internal/router"
	"github.com/dkim/aquamarket-backend/internal/scheduler"
	"github.com/dkim/aquamarket-backend/internal/storage"
	"github.com/dkim/aquamarket-backend/internal/websocket"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"github.com/dkim/aquamarket-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting AquaMarket Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed initial data
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed initial data", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis is optional; ranking caches fall through to the database when
	// it is unavailable.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, ranking cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Start the notification hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	fishRepo := repository.NewFishRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	platformRepo := repository.NewPlatformRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	fishService := service.NewFishService(fishRepo, categoryRepo, db.GetDB())
	reviewService := service.NewReviewService(reviewRepo, fishRepo, db.GetDB())
	favoriteService := service.NewFavoriteService(favoriteRepo, fishRepo)
	categoryService := service.NewCategoryService(categoryRepo, fishRepo, db.GetDB())
	cartService := service.NewCartService(cartRepo, fishRepo)
	notificationService := service.NewNotificationService(notificationRepo, favoriteRepo, hub)
	orderService := service.NewOrderService(orderRepo, fishRepo, cartRepo, db.GetDB(), notificationService)
	platformService := service.NewPlatformService(platformRepo, fishRepo, categoryRepo, db.GetDB())

	// Initialize object storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	fishController := controller.NewFishController(fishService, reviewService)
	categoryController := controller.NewCategoryController(categoryService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	platformController := controller.NewPlatformController(platformService)
	notificationController := controller.NewNotificationController(notificationService, hub)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the nightly aggregate reconciliation
	aggregateScheduler := scheduler.NewAggregateScheduler(fishService)
	if err := aggregateScheduler.Start(); err != nil {
		logger.Error("Failed to start aggregate scheduler", err)
	}
	defer aggregateScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		fishController,
		categoryController,
		favoriteController,
		cartController,
		orderController,
		platformController,
		notificationController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
