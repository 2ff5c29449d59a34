package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/transeast/tripmaster-backend/internal/database"
	"github.com/transeast/tripmaster-backend/internal/handlers"
	"github.com/transeast/tripmaster-backend/internal/middleware"
	"github.com/transeast/tripmaster-backend/internal/models"
	"github.com/transeast/tripmaster-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using process environment")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Build the operator access table
	accounts, err := models.LoadAccountTable()
	if err != nil {
		log.Fatalf("Failed to load operator accounts: %v", err)
	}
	if len(accounts) == 0 {
		log.Printf("Warning: no operator passcodes configured, nobody can log in")
	}

	settingsStore := database.NewSettingsStore(db)
	cache := services.NewSnapshotCache(services.RedisClient)

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		api.POST("/auth/login", handlers.Login(accounts))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/session", handlers.Session())

			trips := protected.Group("/trips")
			{
				trips.GET("", handlers.ListTrips(settingsStore, cache))
				trips.POST("", handlers.CreateTrip(settingsStore, cache))
				trips.PUT("/:id", handlers.UpdateTrip(settingsStore, cache))
				trips.DELETE("/:id", middleware.RequireCapability(models.CapabilityDelete), handlers.DeleteTrip(settingsStore, cache))
				trips.POST("/:id/gp", middleware.RequireCapability(models.CapabilityGPImport), handlers.ImportGP(settingsStore, cache))
				trips.GET("/:id/share", handlers.ShareTrip(settingsStore, cache))
			}

			settings := protected.Group("/settings")
			{
				settings.GET("", handlers.GetSettings(settingsStore))
				settings.PUT("", handlers.UpdateSettings(settingsStore))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
