package handlers

import (
	"taskify/internal/config"
	"taskify/internal/middleware"
	"taskify/internal/services"
	"taskify/internal/sessions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RouterDeps struct {
	DB              *gorm.DB
	TaskService     services.TaskService
	AuthService     services.AuthService
	RegisterService services.RegisterService
	SessionStore    sessions.Store
	AuthConfig      config.AuthConfig
}

// RegisterRoutes mounts the API under /api/v1: public identity endpoints
// and bearer-protected task endpoints.
func RegisterRoutes(r *gin.Engine, deps RouterDeps) {
	v1 := r.Group("/api/v1")

	authHandler := NewAuthHandler(deps.DB, deps.AuthService, deps.RegisterService, deps.SessionStore, deps.AuthConfig)
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.SignUp)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
		authRoutes.GET("/session", authHandler.Session)
		authRoutes.POST("/token", authHandler.Token)
	}

	protected := v1.Group("")
	protected.Use(middleware.RequireAuth(deps.AuthConfig.JWTSecret))
	{
		taskHandler := NewTaskHandler(deps.DB, deps.TaskService)
		taskRoutes := protected.Group("/tasks")
		{
			taskRoutes.GET("", taskHandler.ListTasks)
			taskRoutes.POST("", taskHandler.CreateTask)
			taskRoutes.PATCH("/:id", taskHandler.UpdateTask)
			taskRoutes.DELETE("/:id", taskHandler.DeleteTask)
			taskRoutes.POST("/:id/complete", taskHandler.CompleteTask)
			taskRoutes.DELETE("/:id/complete", taskHandler.UncompleteTask)
		}
	}
}
