// main.go
package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/adhithyakrishna0/nova-script-analyst/auth"
	"github.com/adhithyakrishna0/nova-script-analyst/budget"
	"github.com/adhithyakrishna0/nova-script-analyst/crew"
	"github.com/adhithyakrishna0/nova-script-analyst/internal/platform"
	"github.com/adhithyakrishna0/nova-script-analyst/notifications"
	"github.com/adhithyakrishna0/nova-script-analyst/processing"
	"github.com/adhithyakrishna0/nova-script-analyst/projects"
	"github.com/adhithyakrishna0/nova-script-analyst/scenes"
	"github.com/adhithyakrishna0/nova-script-analyst/schedule"
)

type Server struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine
}

func NewServer() (*Server, error) {
	// Use the shared connection initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	if err := platform.Migrate(db); err != nil {
		return nil, err
	}

	// Create Gin router with CORS middleware
	router := gin.Default()

	// Add database to context middleware
	router.Use(func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	})

	// Add CORS middleware for your frontend
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", os.Getenv("FRONTEND_URL"))
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	server := &Server{
		DB:     db,
		Redis:  rdb,
		Router: router,
	}

	// Setup routes
	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	// Health check (no auth required)
	s.Router.GET("/health", func(c *gin.Context) {
		// Check database connection
		sqlDB, err := s.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Optional integrations: the API still serves without them.
	var analyzer scenes.ScriptAnalyzer
	if a, err := processing.NewAnalyzer(); err != nil {
		log.Printf("Script analyzer disabled: %v", err)
	} else {
		analyzer = a
	}

	var proofs budget.ProofStore
	if store, err := platform.NewS3Store(context.Background()); err != nil {
		log.Printf("Proof uploads disabled: %v", err)
	} else {
		proofs = store
	}

	// Create handlers
	authHandler := auth.NewHandler(s.DB)
	projectHandler := projects.NewHandler(s.DB, s.Redis)
	sceneHandler := scenes.NewHandler(s.DB, s.Redis, analyzer)
	budgetHandler := budget.NewHandler(s.DB, s.Redis, proofs)
	scheduleHandler := schedule.NewHandler(s.DB)
	crewHandler := crew.NewHandler(s.DB)
	notificationHandler := notifications.NewHandler(s.DB, s.Redis)

	// Public routes
	// Root route - no auth needed
	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Nova Script Analyst API v1"})
	})

	// Auth routes (public - no auth middleware)
	authRoutes := s.Router.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)

		// Protected auth routes - require auth middleware
		authRoutes.GET("/me", auth.AuthMiddleware(), authHandler.GetCurrentUser)
		authRoutes.PUT("/role", auth.AuthMiddleware(), authHandler.UpdateRole)
	}

	// Protected routes that require authentication
	protected := s.Router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		// Project endpoints
		projectRoutes := protected.Group("/projects")
		{
			projectRoutes.POST("", auth.RequireManager(), projectHandler.Create)
			projectRoutes.GET("", projectHandler.List)
			projectRoutes.POST("/join", projectHandler.Join)
			projectRoutes.DELETE("/:id", auth.RequireManager(), projectHandler.Delete)

			// Per-project resources
			projectRoutes.GET("/:id/scenes", sceneHandler.List)
			projectRoutes.POST("/:id/analyze", auth.RequireManager(), sceneHandler.Analyze)
			projectRoutes.GET("/:id/budget", budgetHandler.Get)
			projectRoutes.POST("/:id/budget/proof", budgetHandler.UploadProof)
			projectRoutes.GET("/:id/shoot-days", scheduleHandler.ListDays)
			projectRoutes.POST("/:id/shoot-days", auth.RequireManager(), scheduleHandler.CreateDay)
			projectRoutes.GET("/:id/crew", crewHandler.List)
			projectRoutes.DELETE("/:id/crew/:memberID", auth.RequireManager(), crewHandler.Remove)
		}

		// Scene endpoints
		sceneRoutes := protected.Group("/scenes")
		{
			sceneRoutes.PUT("/:id", auth.RequireManager(), sceneHandler.Update)
			sceneRoutes.DELETE("/:id", auth.RequireManager(), sceneHandler.Delete)
			sceneRoutes.POST("/:id/budget/estimate", budgetHandler.SaveEstimate)
			sceneRoutes.POST("/:id/budget/actual", budgetHandler.SaveActual)
		}

		// Shoot day endpoints
		dayRoutes := protected.Group("/shoot-days")
		{
			dayRoutes.PUT("/:id", auth.RequireManager(), scheduleHandler.UpdateDay)
			dayRoutes.DELETE("/:id", auth.RequireManager(), scheduleHandler.DeleteDay)
			dayRoutes.POST("/:id/scenes", auth.RequireManager(), scheduleHandler.AddScene)
			dayRoutes.GET("/:id/call-sheet", scheduleHandler.CallSheet)
		}
		protected.DELETE("/day-scenes/:id", auth.RequireManager(), scheduleHandler.RemoveScene)

		// Notification endpoints
		notificationRoutes := protected.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.List)
			notificationRoutes.GET("/stream", notificationHandler.Stream)
			notificationRoutes.PUT("/:id/read", notificationHandler.MarkRead)
			notificationRoutes.PUT("/read-all", notificationHandler.MarkAllRead)
			notificationRoutes.DELETE("/:id", notificationHandler.Delete)
			notificationRoutes.DELETE("", notificationHandler.ClearAll)
		}
	}
}

func (s *Server) Run() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	return s.Router.Run(":" + port)
}

func main() {
	server, err := NewServer()
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	if err := server.Run(); err != nil {
		log.Fatal("Failed to run server:", err)
	}
}
