package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/fefu-lab/course-service/internal/config"
	"github.com/fefu-lab/course-service/internal/events"
	"github.com/fefu-lab/course-service/internal/handlers"
	"github.com/fefu-lab/course-service/internal/repositories/postgres"
	"github.com/fefu-lab/course-service/internal/seed"
	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
	"github.com/fefu-lab/course-service/internal/validator"
	"github.com/fefu-lab/course-service/pkg"
)

func main() {
	seedData := flag.Bool("seed", false, "load demo data and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	repo := repoManager.GetRepository()

	if *seedData {
		if err := seed.NewSeeder(repo, slogLogger).Run(context.Background()); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		return
	}

	// Initialize validator
	validator := validator.New()

	// Initialize services
	serviceManager := services.NewServiceManager(repo, slogLogger, validator, services.ServiceManagerConfig{
		LogLevel:       cfg.LogLevel,
		BcryptCost:     cfg.BcryptCost,
		ResetTokenTTL:  cfg.ResetTokenTTL,
		DefaultTimeout: 30 * time.Second,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Event publisher: Kafka when brokers are configured, in-process otherwise
	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventTopic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
	} else {
		publisher = events.NewGoChannelPublisher(cfg.EventTopic, slogLogger)
	}

	// Outbox drain loop
	workerCtx, stopWorker := context.WithCancel(context.Background())
	outboxWorker := services.NewOutboxWorker(repo, publisher, slogLogger)
	go outboxWorker.Start(workerCtx)

	// Session signing
	signer := &utils.SessionSigner{
		Secret: []byte(cfg.Session.Secret),
		Issuer: cfg.Session.Issuer,
		TTL:    cfg.Session.TTL,
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, signer, cfg.Session.CookieName, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Stop the outbox worker and flush what it can
	stopWorker()
	outboxWorker.Wait()
	if err := outboxWorker.DrainOnce(ctx); err != nil {
		log.Printf("Failed to drain outbox: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("Failed to close publisher: %v", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	if err := repoManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown repositories: %v", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
