package main

import (
	"log"
	"time"

	"github.com/fintechbuddy/insights-api/config"
	"github.com/fintechbuddy/insights-api/middleware"
	"github.com/fintechbuddy/insights-api/routes"
	"github.com/fintechbuddy/insights-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadAIConfig()
	log.Printf("🔑 GROQ_MODEL=%s GROQ_API_KEY_present=%v GROQ_API_KEY_masked=%s",
		cfg.Model(), cfg.KeyPresent(), cfg.MaskedKey())
	if !cfg.Configured() {
		log.Println("⚠️  AI query path disabled until GROQ_API_KEY and GROQ_MODEL are set")
	}

	store := services.NewDatasetStore()

	router := gin.Default()

	// The dashboard is same-origin but the API is also hit from local
	// frontend dev servers.
	corsConfig := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	limiter := middleware.NewRateLimiter(100, time.Minute)
	router.Use(limiter.Middleware())

	routes.SetupTransactionRoutes(router, store, cfg)
	routes.SetupDebugRoutes(router, cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := config.Port()
	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
