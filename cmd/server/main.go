package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"houseprice/internal/config"
	"houseprice/internal/handler"
	"houseprice/internal/repository"
	"houseprice/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const defaultHistoryLimit = 20

func main() {
	// Print version info
	log.Printf("House Price Predictor")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	// Initialize analytics cache
	var cache repository.CacheRepository
	if cfg.Redis.Enabled {
		redisCache := repository.NewRedisCache(cfg.Redis.Addr)
		defer redisCache.Close()
		cache = redisCache
		log.Printf("✅ Redis cache initialized at %s", cfg.Redis.Addr)
	} else {
		cache = repository.NewMemoryCache()
		log.Println("⚠️  REDIS_ADDR not set - using in-memory analytics cache")
	}

	// Initialize prediction backend client
	predictor := service.NewPredictorClient(&cfg.Predictor)
	if cfg.Predictor.Enabled {
		log.Printf("✅ Prediction backend client initialized")
		log.Printf("   - Base URL: %s", cfg.Predictor.BaseURL)
		log.Printf("   - Timeout: %ds", cfg.Predictor.Timeout)
	} else {
		log.Println("⚠️  Prediction backend is disabled - using local estimator")
		log.Println("   Set PREDICTOR_BASE_URL environment variable to enable remote predictions")
	}

	// Initialize services
	estimator := service.NewEstimator()
	predictionService := service.NewPredictionService(repo, predictor, estimator, service.DefaultComparableLimit)
	analyticsService := service.NewAnalyticsService(repo, cache, time.Duration(cfg.Analytics.CacheTTLSeconds)*time.Second)

	log.Println("✅ Services initialized")

	// Initialize handlers
	predictionHandler := handler.NewPredictionHandler(predictionService, defaultHistoryLimit, cfg.Analytics.HistoryLimit)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	contactHandler := handler.NewContactHandler(repo)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "house-price-predictor",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Prediction endpoints
		apiV1.POST("/predictions", predictionHandler.Predict)
		apiV1.POST("/predictions/basic", predictionHandler.PredictBasic)
		apiV1.GET("/predictions", predictionHandler.History)
		apiV1.GET("/predictions/chart", predictionHandler.Chart)

		// Comparable property endpoints
		apiV1.POST("/comparables/batch", predictionHandler.UpsertComparables)

		// Analytics endpoints
		apiV1.GET("/analytics/price-trends", analyticsHandler.PriceTrends)
		apiV1.GET("/analytics/feature-importance", analyticsHandler.FeatureImportance)
		apiV1.GET("/analytics/prediction-accuracy", analyticsHandler.Accuracy)

		// Contact endpoints
		apiV1.POST("/contact", contactHandler.Submit)
		apiV1.GET("/contact/submissions", contactHandler.Submissions)
	}

	// Serve static files (frontend)
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API Documentation: http://localhost:%d/api/v1", cfg.Server.Port)
	log.Printf("🌐 Web UI: http://localhost:%d", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
