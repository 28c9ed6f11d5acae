package main

import (
	"log"
	"net/http"
	"os"

	"postboard/config"
	"postboard/handlers"
	"postboard/lockout"
	"postboard/middleware"
	"postboard/repositories"
	"postboard/services"
	"postboard/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	db := config.InitDB()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	blobs, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)

	// Initialize services
	engine := lockout.NewEngine()
	authService := services.NewAuthService(db, userRepo, engine)
	userService := services.NewUserService(db, userRepo, postRepo, engine, blobs)
	postService := services.NewPostService(postRepo)
	dashboardService := services.NewDashboardService(userRepo, postRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	dataHandler := handlers.NewDataHandler(postService)

	// Setup router
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", userHandler.UpdateProfile)
			protected.PUT("/profile/password", userHandler.ChangePassword)
			protected.PUT("/profile/image", userHandler.UpdateProfileImage)

			// Dashboard
			protected.GET("/dashboard", dashboardHandler.Dashboard)

			// Posts
			posts := protected.Group("/posts")
			{
				posts.POST("", postHandler.CreatePost)
				posts.GET("", postHandler.ListPosts)
				posts.GET("/statistics", postHandler.Statistics)
				posts.PUT("/bulk-status", postHandler.BulkUpdateStatus)
				posts.GET("/:id", postHandler.GetPost)
				posts.PUT("/:id", postHandler.UpdatePost)
				posts.DELETE("/:id", postHandler.DeletePost)
			}

			// Data export
			protected.GET("/data/export", dataHandler.ExportPosts)

			// User management (admin only)
			users := protected.Group("/users")
			users.Use(middleware.RequireAdmin())
			{
				users.POST("", userHandler.CreateUser)
				users.GET("", userHandler.ListUsers)
				users.GET("/statistics", userHandler.Statistics)
				users.POST("/bulk-action", userHandler.BulkAction)
				users.GET("/:id", userHandler.GetUser)
				users.PUT("/:id", userHandler.UpdateUser)
				users.DELETE("/:id", userHandler.DeleteUser)
				users.PUT("/:id/toggle-lock", userHandler.ToggleLock)
			}
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
