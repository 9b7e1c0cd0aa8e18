package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/vidyamath/api/internal/client"
	"github.com/vidyamath/api/internal/config"
	"github.com/vidyamath/api/internal/handler"
	"github.com/vidyamath/api/internal/middleware"
	"github.com/vidyamath/api/internal/model"
	"github.com/vidyamath/api/internal/renderer"
	"github.com/vidyamath/api/internal/service"
	"github.com/vidyamath/api/internal/worker"
	ws "github.com/vidyamath/api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize external clients
	groqClient := client.NewGroqClient(&cfg.Groq)
	sarvamClient := client.NewSarvamClient(&cfg.Sarvam)
	if !sarvamClient.IsConfigured() {
		log.Println("Info: Sarvam TTS not configured, narration will use estimated durations")
	}

	// Initialize Drive client (optional - continues if not configured)
	var driveClient *client.DriveClient
	if cfg.Drive.CredentialsJSON != "" {
		var err error
		driveClient, err = client.NewDriveClient(ctx, &cfg.Drive)
		if err != nil {
			log.Printf("Warning: Drive client not initialized: %v", err)
		}
	} else {
		log.Println("Info: Drive storage not configured, uploads and library disabled")
	}

	bounds := model.GradeBounds{Min: cfg.Grade.Min, Max: cfg.Grade.Max}

	// Initialize services
	videoService := service.NewVideoService(redisClient, asynqClient, bounds)
	composeService := service.NewComposeService(groqClient, bounds)
	libraryService := service.NewLibraryService(driveClient, &cfg.Drive)
	uploadService := service.NewUploadService(driveClient, &cfg.Drive)

	// Initialize handlers
	videoHandler := handler.NewVideoHandler(videoService, validate)
	composeHandler := handler.NewComposeHandler(composeService, validate)
	libraryHandler := handler.NewLibraryHandler(libraryService, validate, bounds)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    10 * 1024 * 1024, // 10MB
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Base URL - timestamp
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"groq":   groqClient.IsConfigured(),
				"sarvam": sarvamClient.IsConfigured(),
				"drive":  driveClient != nil,
				"auth":   cfg.JWT.Secret != "",
			},
		})
	})

	// API routes
	api := app.Group("/api", authMiddleware.Authenticate())

	// Video generation routes
	videos := api.Group("/videos")
	videos.Post("/generate", rateLimiter.GenerateLimit(cfg.RateLimit.GeneratePerHour), videoHandler.Start)
	videos.Get("/status/:jobId", videoHandler.Status)
	videos.Get("/result/:jobId", videoHandler.Result)
	videos.Post("/cancel/:jobId", videoHandler.Cancel)

	// Compose routes
	compose := api.Group("/compose", rateLimiter.ComposeLimit(cfg.RateLimit.ComposePerMin))
	compose.Post("/draft", composeHandler.Draft)

	// Library routes
	library := api.Group("/library")
	library.Get("/books/:grade", rateLimiter.LibraryLimit(cfg.RateLimit.LibraryPerMin), libraryHandler.ListBooks)
	library.Get("/videos", rateLimiter.LibraryLimit(cfg.RateLimit.LibraryPerMin), libraryHandler.ListVideos)
	library.Post("/search", rateLimiter.SearchLimit(cfg.RateLimit.SearchPerMin), libraryHandler.Search)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
		jobID := c.Params("jobId")
		hub.HandleConnection(c, jobID)
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, videoService, uploadService, sarvamClient, hub)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(
	cfg *config.Config,
	videoService *service.VideoService,
	uploadService *service.UploadService,
	sarvamClient *client.SarvamClient,
	hub *ws.Hub,
) {
	asynqLogLevel := asynq.InfoLevel
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		asynqLogLevel = asynq.DebugLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "warn") {
		asynqLogLevel = asynq.WarnLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "error") {
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// A render holds a python subprocess for minutes, keep
			// concurrency low.
			Concurrency: 2,
			Queues: map[string]int{
				"render": 10,
			},
			LogLevel: asynqLogLevel,
		},
	)

	invoker := renderer.NewInvoker(&cfg.Manim)
	renderBudget := time.Duration(cfg.Manim.TimeoutSeconds) * time.Second

	videoWorker := worker.NewVideoWorker(videoService, uploadService, sarvamClient, invoker, renderBudget, hub)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeGenerate, videoWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
