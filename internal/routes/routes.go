package routes

import (
	"scavenger-hunt-api/internal/auth"
	"scavenger-hunt-api/internal/handlers"
	"scavenger-hunt-api/internal/metrics"
	"scavenger-hunt-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// uploadOverhead leaves room for multipart framing around the file itself
const uploadOverhead = 1 << 20

// Options wires the router to its handlers
type Options struct {
	Handler        *handlers.Handler
	Tokens         *auth.Manager
	MaxUploadBytes int64
	// UploadsDir and UploadsURL serve locally stored files; empty when blobs live in a bucket.
	UploadsDir string
	UploadsURL string
}

func SetupRoutes(opts Options) *gin.Engine {
	h := opts.Handler

	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Scavenger Hunt API is running",
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	if opts.UploadsDir != "" && opts.UploadsURL != "" {
		ginRouter.Static(opts.UploadsURL, opts.UploadsDir)
	}

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
	}

	upload := middleware.MaxBodySize(opts.MaxUploadBytes + uploadOverhead)

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(opts.Tokens))
	{
		protectedRoutes.GET("/ws", h.WebSocket)

		// Team profile
		protectedRoutes.GET("/team", h.GetTeam)
		protectedRoutes.PUT("/team", h.UpdateTeam)
		protectedRoutes.POST("/team/photo", upload, h.UploadTeamPhoto)

		// Playing
		protectedRoutes.GET("/tasks", h.GetTasks)
		protectedRoutes.GET("/tasks/current", h.GetCurrentTask)
		protectedRoutes.GET("/tasks/:id", h.GetTaskByID)
		protectedRoutes.POST("/tasks/:id/answer", h.SubmitAnswer)
		protectedRoutes.POST("/tasks/:id/quiz", h.SubmitQuiz)
		protectedRoutes.POST("/tasks/:id/location", h.SubmitLocation)
		protectedRoutes.POST("/tasks/:id/submissions", upload, h.SubmitPhoto)
		protectedRoutes.POST("/tasks/:id/continue", h.ContinueTask)
		protectedRoutes.GET("/progress", h.GetProgress)
		protectedRoutes.GET("/submissions", h.GetMySubmissions)
	}

	// Admin routes
	adminRoutes := protectedRoutes.Group("/admin")
	adminRoutes.Use(middleware.RequireAdmin())
	{
		adminRoutes.GET("/stats", h.GetStats)
		adminRoutes.GET("/teams", h.GetTeamSummaries)
		adminRoutes.GET("/teams/:id", h.GetTeamSummary)
		adminRoutes.GET("/submissions", h.GetSubmissions)
		adminRoutes.POST("/submissions/:id/review", h.ReviewSubmission)
		adminRoutes.DELETE("/submissions/:id", h.DeleteSubmission)
		adminRoutes.PATCH("/tasks/:id/active", h.SetTaskActive)
	}

	return ginRouter
}
