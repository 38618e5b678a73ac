package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"societysync-be/cache"
	"societysync-be/config"
	"societysync-be/middlewares"
	"societysync-be/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")
	config.EnsureIndexes()

	config.ConnectRedis()
	cacheSvc := cache.New(config.RedisClient)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	corsConfig.AllowOrigins = strings.Split(origins, ",")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.DetectLanguage())
	r.Use(cache.Inject(cacheSvc))

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	r.Static("/uploads", uploadDir)

	routes.AuthRoutes(r)
	routes.UserRoutes(r)
	routes.IssueRoutes(r, cacheSvc)
	routes.AssignmentRoutes(r)
	routes.FeedbackRoutes(r)
	routes.RecurringRoutes(r, cacheSvc)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
