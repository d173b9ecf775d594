package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskbridge.backend/internal/config"
	"taskbridge.backend/internal/infrastructure/analysis"
	"taskbridge.backend/internal/infrastructure/jobs"
	"taskbridge.backend/internal/infrastructure/repositories"
	"taskbridge.backend/internal/infrastructure/storage"
	"taskbridge.backend/internal/interfaces/http/handlers"
	"taskbridge.backend/internal/interfaces/http/middleware"
	"taskbridge.backend/internal/interfaces/ws"
	"taskbridge.backend/internal/usecases"
	"taskbridge.backend/pkg/jwt"
	"taskbridge.backend/pkg/logger"
	"taskbridge.backend/pkg/metrics"
	"taskbridge.backend/pkg/redis"
	"taskbridge.backend/pkg/workerpool"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	taskFileRepo := repositories.NewTaskFileRepository(db)
	chatMessageRepo := repositories.NewChatMessageRepository(db)
	taskAnalysisRepo := repositories.NewTaskAnalysisRepository(db)

	// Object storage is optional: without credentials, attachments live in
	// the database only.
	var objectStorage usecases.ObjectStorage
	if cfg.Storage.AccessKey != "" {
		s3Client, err := storage.NewS3Client(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		objectStorage = s3Client
		logger.Info(context.Background(), "Object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		log.Println("⚠️ No S3 credentials configured, attachments served from database only")
	}

	// Task analysis client and its worker pool
	analysisClient := analysis.NewClient(cfg.Analysis)
	analysisPool := workerpool.New(cfg.Analysis.Workers, cfg.Analysis.Workers*8)
	if !analysisClient.Enabled() {
		log.Println("⚠️ No analysis API key configured, task analysis disabled")
	}

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, refreshTokenRepo, jwtService)
	taskUsecase := usecases.NewTaskUsecase(taskRepo, paymentRepo, taskAnalysisRepo, analysisClient, analysisPool)
	paymentUsecase := usecases.NewPaymentUsecase(paymentRepo, taskRepo, userRepo, cfg.UPI)
	fileUsecase := usecases.NewFileUsecase(taskRepo, taskFileRepo, objectStorage)
	userUsecase := usecases.NewUserUsecase(userRepo, taskRepo, paymentRepo)
	chatUsecase := usecases.NewChatUsecase(taskRepo, chatMessageRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	taskHandler := handlers.NewTaskHandler(taskUsecase)
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase)
	fileHandler := handlers.NewFileHandler(fileUsecase)
	userHandler := handlers.NewUserHandler(userUsecase)
	chatHandler := handlers.NewChatHandler(chatUsecase)

	// Start background jobs and the realtime hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupJob := jobs.NewTokenCleanupJob(refreshTokenRepo)
	go cleanupJob.Start(ctx)

	hub := ws.NewHub()
	go hub.Run(ctx)
	wsHandler := ws.NewHandler(hub, chatUsecase, jwtService)

	// Initialize metrics
	metrics.Init()

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(metrics.Middleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:            authHandler,
		taskHandler:            taskHandler,
		paymentHandler:         paymentHandler,
		fileHandler:            fileHandler,
		userHandler:            userHandler,
		chatHandler:            chatHandler,
		wsHandler:              wsHandler,
		authMiddleware:         middleware.AuthMiddleware(jwtService),
		optionalAuthMiddleware: middleware.OptionalAuthMiddleware(jwtService),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		cleanupJob.Stop()
		analysisPool.StopWait()
		cancel()
	}()

	// Start server
	log.Printf("🚀 TaskBridge Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
