// File: servicesync/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servicesync/config"
	"servicesync/cron"
	"servicesync/database"
	sessionRepoPkg "servicesync/database/repository/session"
	userRepoPkg "servicesync/database/repository/user"
	"servicesync/handlers"
	"servicesync/middleware"
	"servicesync/routes"
	"servicesync/services/report"
	"servicesync/services/session"
	"servicesync/services/storage"
	"servicesync/services/transport"
	"servicesync/services/user"
	"servicesync/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// The realtime backend is optional: without it the publisher falls back
	// to the local bus and clients run against the mock channel.
	if err := utils.InitRealtime(); err != nil {
		logger.Warn("main: realtime backend unreachable, running in mock mode", zap.Error(err))
	}

	cld, cloudName, err := utils.Cloudinary()
	var storageService storage.StorageService
	if err != nil {
		logger.Warn("main: cloudinary unavailable, diet sheet uploads disabled", zap.Error(err))
	} else {
		storageService = storage.NewStorageService(cld, cloudName)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo()

	// realtime publishing and the delayed task queue.
	publisher := transport.NewPublisher(utils.GetRealtimeClient(), transport.NewEventBus(), logger)
	taskQueue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer taskQueue.Close()

	// services.
	userService := &user.DefaultUserService{
		Repo:      userRepo,
		TaskQueue: taskQueue,
	}
	sessionService := &session.DefaultSessionService{
		Repo:      sessionRepo,
		Users:     userRepo,
		Publisher: publisher,
		TaskQueue: taskQueue,
		ExpiryAge: time.Duration(config.AppConfig.SessionExpiryMin) * time.Minute,
		Log:       logger,
	}
	reportService := &report.DefaultReportService{
		Repo: sessionRepo,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Auth endpoints.
		LoginHandler:    handlers.LoginHandler(userService),
		MeHandler:       handlers.MeHandler(userService),
		LogoutHandler:   handlers.LogoutHandler(userService),
		RegisterHandler: handlers.RegisterHandler(userService),
		FCMTokenHandler: handlers.FCMTokenHandler(userService),

		// Session endpoints.
		CreateSessionHandler: handlers.CreateSessionHandler(sessionService),
		GetSessionHandler:    handlers.GetSessionHandler(sessionService),
		UpdateSessionHandler: handlers.UpdateSessionHandler(sessionService),

		// Field workflow endpoints.
		QRScanHandler:          handlers.QRScanHandler(sessionService),
		NurseAlertHandler:      handlers.NurseAlertHandler(sessionService),
		NurseRespondHandler:    handlers.NurseRespondHandler(sessionService),
		UploadDietSheetHandler: handlers.UploadDietSheetHandler(storageService, sessionService),

		// Supervisor endpoints.
		DashboardHandler: handlers.DashboardHandler(reportService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background workers and health monitoring.
	cron.InitWorker(sessionRepo, userRepo, publisher)
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetAuthCacheClient(), utils.GetRealtimeClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "3001"
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
