// File: velora/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"velora/config"
	"velora/cron"
	"velora/database"
	offerRepoPkg "velora/database/repository/offer"
	providerRepoPkg "velora/database/repository/provider"
	"velora/handlers"
	"velora/middleware"
	"velora/routes"
	"velora/services/events"
	"velora/services/notification"
	"velora/services/offer"
	"velora/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	offerRepo := offerRepoPkg.NewMongoOfferRepo()
	if err := offerRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create offer indexes: %v", err)
	}
	registry := providerRepoPkg.NewMongoProviderRepo(utils.GetCacheClient())
	if err := registry.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create provider indexes: %v", err)
	}

	// services.
	notificationService, err := notification.NewDefaultNotificationService(registry)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}
	eventPublisher := events.NewRedisPublisher(utils.GetEventsClient(), logger)
	expiryScheduler := cron.NewAsynqExpiryScheduler()

	lifecycleService := &offer.DefaultLifecycleService{
		Repo:            offerRepo,
		Registry:        registry,
		Notifier:        notificationService,
		Events:          eventPublisher,
		Scheduler:       expiryScheduler,
		Logger:          logger,
		ImmediateWindow: config.AppConfig.ImmediateResponseWindow,
		ScheduledWindow: config.AppConfig.ScheduledResponseWindow,
		Clock:           utils.SystemClock,
	}

	// Run the deadline worker and sweep alongside the HTTP server. Expiry is
	// idempotent, so multiple instances can run this safely.
	cron.InitExpiryWorker(lifecycleService)

	offerHandler := handlers.NewOfferHandler(lifecycleService, logger)
	providerHandler := handlers.NewProviderHandler(registry, logger)

	providerAuth := middleware.JWTAuthProviderMiddleware(registry)
	userAuth := middleware.JWTAuthUserMiddleware()
	routes.RegisterRoutes(router, offerHandler, providerHandler, providerAuth, userAuth)

	utils.StartHealthMonitor(
		map[string]*redis.Client{
			"cache":  utils.GetCacheClient(),
			"auth":   utils.GetAuthCacheClient(),
			"events": utils.GetEventsClient(),
		},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
