package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clipforge-backend/internal/config"
	"clipforge-backend/internal/database"
	"clipforge-backend/internal/handlers"
	"clipforge-backend/internal/media"
	"clipforge-backend/internal/middleware"
	"clipforge-backend/internal/repository"
	"clipforge-backend/internal/router"
	"clipforge-backend/internal/services"
	"clipforge-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting ClipForge Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	trendRepo := repository.NewTrendRepo(pool)
	analyticsRepo := repository.NewAnalyticsRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	nicheRepo := repository.NewNicheRepo(pool)
	learningRepo := repository.NewLearningRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	referenceService := services.NewReferenceService(geminiService)
	imageService := services.NewImageService(cfg.ImageProviderURL)
	ttsService := services.NewTTSService(cfg.OpenAIAPIKey, cfg.TTSVoice, cfg.TTSSpeed)
	learningService := services.NewLearningService(learningRepo)
	nicheService := services.NewNicheService(trendRepo, analyticsRepo, nicheRepo, redisClients.Cache)
	analyticsService := services.NewAnalyticsService(analyticsRepo, videoRepo, trendRepo, nicheRepo, learningService)
	assembler := media.NewAssembler(cfg.FFmpegPath, cfg.FFprobePath, cfg.OutputDir)
	videoService := services.NewVideoService(
		videoRepo,
		geminiService,
		referenceService,
		imageService,
		ttsService,
		learningService,
		assembler,
		redisClients.PubSub,
		cfg.ImagesPerVideo,
	)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(jwtAuth, cfg.AdminKeyHash)
	trendHandler := handlers.NewTrendHandler(nicheService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	nicheHandler := handlers.NewNicheHandler(nicheService)
	videoHandler := handlers.NewVideoHandler(videoService)
	learningHandler := handlers.NewLearningHandler(learningService, analyticsService)
	dashboardHandler := handlers.NewDashboardHandler(analyticsService)

	// ──── Step 6: Start Niche Recompute Scheduler ────
	nicheService.Start()
	log.Println("✓ Niche recompute scheduler started")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		trendHandler,
		analyticsHandler,
		nicheHandler,
		videoHandler,
		learningHandler,
		dashboardHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Generation is synchronous and renders media inline, so the
		// write timeout has to cover a full pipeline run.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		nicheService.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ ClipForge Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
