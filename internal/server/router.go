package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/handlers"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/services"
)

// RouterConfig holds everything the HTTP routes depend on
type RouterConfig struct {
	Store       *database.Store
	Tokens      *auth.TokenIssuer
	Generator   services.TaskGenerator
	CORSOrigins []string
	Logger      *log.Logger
}

// NewRouter wires handlers, services and middleware into a gin engine
func NewRouter(rc RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(rc.Logger), middleware.RequestLogger(rc.Logger))

	if len(rc.CORSOrigins) > 0 {
		r.Use(middleware.CORS(rc.CORSOrigins))
	}

	// Initialize services
	authService := services.NewAuthService(rc.Store.Users, rc.Tokens)
	taskService := services.NewTaskService(rc.Store.Tasks, rc.Generator)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, rc.Logger)
	taskHandler := handlers.NewTaskHandler(taskService, rc.Logger)

	requireAuth := middleware.RequireAuth(rc.Tokens)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Todo API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
			authRoutes.PATCH("/username", requireAuth, authHandler.ChangeUsername)
			authRoutes.PATCH("/password", requireAuth, authHandler.ChangePassword)
		}

		// Task routes (protected)
		todos := api.Group("/todos")
		todos.Use(requireAuth)
		{
			todos.GET("", taskHandler.ListTasks)
			todos.POST("", taskHandler.CreateTask)
			todos.GET("/stats", taskHandler.TaskStats)
			todos.POST("/generate", taskHandler.GenerateTasks)
			todos.GET("/:id", taskHandler.GetTask)
			todos.PATCH("/:id", taskHandler.UpdateTask)
			todos.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return r
}
