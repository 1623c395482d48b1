package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scamscan/scamscan/internal/analyzer"
	"github.com/scamscan/scamscan/internal/api"
	"github.com/scamscan/scamscan/internal/crawler"
	"github.com/scamscan/scamscan/internal/db"
	"github.com/scamscan/scamscan/internal/domain"
	"github.com/scamscan/scamscan/internal/fetcher"
	"github.com/scamscan/scamscan/internal/middleware"
	"github.com/scamscan/scamscan/internal/notifier"
	"github.com/scamscan/scamscan/internal/scanner"
)

// Config holds application configuration
type Config struct {
	Port            string
	CrawlerMaxPages int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewConfig creates a new configuration from environment variables
func NewConfig() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	maxPages := crawler.DefaultMaxPages
	if maxPagesStr := os.Getenv("CRAWLER_MAX_PAGES"); maxPagesStr != "" {
		if parsed, err := strconv.Atoi(maxPagesStr); err == nil && parsed > 0 {
			maxPages = parsed
		}
	}

	return &Config{
		Port:            port,
		CrawlerMaxPages: maxPages,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

func main() {
	// Initialize configuration
	config := NewConfig()

	// Initialize database
	log.Println("Initializing database...")
	dbConn, err := db.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully")

	// Initialize scan pipeline
	log.Println("Initializing scan pipeline...")
	hub := notifier.NewHub()
	contentAnalyzer := analyzer.New(dbConn, analyzer.NewGeminiClient())
	runner := scanner.NewRunner(dbConn, hub, contentAnalyzer, fetcher.New(), domain.NewInspector(), config.CrawlerMaxPages)
	log.Println("Scan pipeline initialized successfully")

	// Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Add middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   "scamscan",
		})
	})

	// Authentication endpoint
	r.POST("/auth/login", api.LoginHandler(dbConn))

	// Job progress stream
	r.GET("/ws/:job_id", api.WebSocketHandler(hub))

	// Scan and query routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyze", api.AnalyzeURLHandler(runner))
		v1.POST("/analyze-html", api.AnalyzeHTMLHandler(runner))
		v1.POST("/secrets-scan", api.SecretsScanHandler(runner))
		v1.POST("/code-audit", api.CodeAuditHandler(runner))
		v1.GET("/history", api.HistoryHandler(dbConn))
		v1.GET("/settings", api.GetSettingsHandler(dbConn))
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTRequired())
	{
		protected.DELETE("/history", api.ClearHistoryHandler(dbConn))
		protected.PUT("/settings", api.UpdateSettingsHandler(dbConn))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create shutdown context
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	// Shutdown server gracefully
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Close any remaining progress streams
	hub.Shutdown()

	log.Println("Server exited")
}
