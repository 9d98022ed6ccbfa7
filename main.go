package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/officialapps/govcon/config"
	"github.com/officialapps/govcon/handler"
	"github.com/officialapps/govcon/middleware"
	"github.com/officialapps/govcon/migrations"
	"github.com/officialapps/govcon/pkg/logger"
	"github.com/officialapps/govcon/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	ctx := context.Background()

	// Apply database migrations
	if err := migrations.Run(ctx, cfg.Database.URL); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Initialize services
	store := service.NewStore(pool)

	files, err := service.NewObjectStore(&cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	// Ensure bucket exists
	if err := files.EnsureBucket(ctx); err != nil {
		slog.Error("failed to ensure storage bucket", "error", err)
		os.Exit(1)
	}

	extractor := service.NewPDFExtractor()
	drafter := service.NewDrafter(&cfg.OpenAI)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(store, cfg)
	rfpHandler := handler.NewRFPHandler(store, files, extractor, drafter)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Add custom middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(&cfg.CORS))
	router.Use(middleware.RateLimit(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth, store))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/upload-rfp", rfpHandler.Upload)
		protected.GET("/rfps", rfpHandler.List)
		protected.GET("/rfp/:id", rfpHandler.Get)
		protected.PUT("/rfp/:id", rfpHandler.Update)
		protected.POST("/generate-draft/:id", rfpHandler.GenerateDraft)
	}

	// Create server. The write timeout leaves headroom for draft
	// generation, which waits on the external API.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
