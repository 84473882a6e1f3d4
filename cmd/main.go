package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/zenmart/auth-service/config"
	"github.com/zenmart/auth-service/internal/handler"
	"github.com/zenmart/auth-service/internal/middleware"
	"github.com/zenmart/auth-service/internal/notifier"
	"github.com/zenmart/auth-service/internal/repository"
	"github.com/zenmart/auth-service/internal/router"
	"github.com/zenmart/auth-service/internal/service"
	"github.com/zenmart/auth-service/pkg/database"
	"github.com/zenmart/auth-service/pkg/logger"
	"github.com/zenmart/auth-service/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", "1.0.0"),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	redisClient := redis.NewClient(redis.Config{
		Enabled:      config.Redis.Enabled,
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	hasher := service.NewPasswordHasher()
	tokenService := service.NewTokenService(
		config.JWT.AccessSecret,
		config.JWT.RefreshSecret,
		config.JWT.AccessTTL,
		config.JWT.RefreshTTL,
	)
	resetManager := service.NewResetTokenManager(userRepo, config.Reset.TokenTTL)

	var channels notifier.Multi
	if config.SMTP.Host != "" {
		smtpNotifier, err := notifier.NewSMTPNotifier(
			config.SMTP.Host,
			config.SMTP.Port,
			config.SMTP.Username,
			config.SMTP.Password,
			config.SMTP.From,
		)
		if err != nil {
			logger.GetLogger().Fatal("Failed to initialize SMTP notifier", zap.Error(err))
		}
		channels = append(channels, smtpNotifier)
		logger.GetLogger().Info("SMTP notifier enabled",
			zap.String("host", config.SMTP.Host),
		)
	}
	if config.SMS.APIURL != "" {
		channels = append(channels, notifier.NewSMSNotifier(config.SMS.APIURL, config.SMS.APIKey))
		logger.GetLogger().Info("SMS notifier enabled")
	}
	var notify notifier.Notifier = notifier.Nop{}
	if len(channels) > 0 {
		notify = channels
	}

	authService := service.NewAuthService(
		userRepo, tokenRepo, hasher, tokenService, resetManager, notify, config.App.BaseURL)
	userService := service.NewUserService(userRepo)

	// Sweep expired sessions at startup, then hourly.
	go func() {
		for {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			removed, err := tokenRepo.CleanupExpired(ctx)
			cancel()
			if err != nil {
				logger.GetLogger().Warn("Expired session cleanup failed", zap.Error(err))
			} else if removed > 0 {
				logger.GetLogger().Info("Expired sessions removed", zap.Int64("count", removed))
			}
			time.Sleep(time.Hour)
		}
	}()

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Middleware
	jwtMiddleware := middleware.NewJWTMiddleware(tokenService)
	rateLimiter := middleware.RateLimit(
		redisClient,
		config.RateLimit.Request,
		time.Duration(config.RateLimit.Duration)*time.Second,
	)

	r := router.NewRouter(
		authHandler,
		userHandler,
		healthHandler,
		jwtMiddleware,
		rateLimiter,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
