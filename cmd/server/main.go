package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mshirazi/datebridge/internal/config"
	"github.com/mshirazi/datebridge/internal/database"
	"github.com/mshirazi/datebridge/internal/handlers"
	"github.com/mshirazi/datebridge/internal/middleware"
	"github.com/mshirazi/datebridge/internal/repositories"
	"github.com/mshirazi/datebridge/internal/services"
	"github.com/mshirazi/datebridge/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting datebridge API...")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	creditRepo := repositories.NewCreditRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	meetingRepo := repositories.NewMeetingRepository(db)
	tierRepo := repositories.NewTierRepository(db)
	adminLogRepo := repositories.NewAdminLogRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	if err := tierRepo.SeedDefaults(); err != nil {
		logger.Warn("Failed to seed tier limits", "error", err)
	}

	// Services
	notifier := services.NewDBNotifier(notificationRepo)
	activityService := services.NewActivityService(db, activityRepo, matchRepo, tierRepo, userRepo, notifier)
	meetingService := services.NewMeetingService(db, meetingRepo, userRepo, creditRepo, walletRepo, tierRepo, matchRepo, notifier)
	investigationService := services.NewInvestigationService(db, meetingRepo, userRepo, creditRepo, walletRepo, adminLogRepo, notifier, services.LogEmailSender{})
	adminService := services.NewAdminService(db, userRepo, walletRepo, tierRepo, adminLogRepo, notifier)

	// HTTP surface
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, cfg.RateLimitWindow)
	manager := handlers.NewManager(activityService, meetingService, investigationService, adminService, userRepo, matchRepo, walletRepo, notificationRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	manager.RegisterRoutes(router, cfg.JWTSecret, limiter)

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
