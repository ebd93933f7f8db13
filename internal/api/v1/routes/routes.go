package routes

import (
	"github.com/gin-gonic/gin"

	"rvc-service/internal/api/middleware"
	"rvc-service/internal/api/v1/handlers"
	"rvc-service/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	VoiceService services.VoiceService
}

// Options configures route registration.
type Options struct {
	MaxUploadBytes int64
	// JWTSecret enables bearer-token auth on every route except /health when set.
	JWTSecret string
}

// RegisterRoutes registers the service routes on router.
func RegisterRoutes(router gin.IRouter, container *ServiceContainer, opts Options) {
	healthHandler := handlers.NewHealthHandler(container.VoiceService)
	router.GET("/health", healthHandler.Health)

	protected := router.Group("")
	if opts.JWTSecret != "" {
		protected.Use(middleware.JWTAuth(opts.JWTSecret))
	}

	voiceHandler := handlers.NewVoiceHandler(container.VoiceService, opts.MaxUploadBytes)

	uploads := protected.Group("")
	uploads.Use(middleware.LimitBody(opts.MaxUploadBytes))
	{
		uploads.POST("/train", voiceHandler.Train)
		uploads.POST("/convert", voiceHandler.Convert)
	}

	models := protected.Group("/models")
	{
		models.GET("", voiceHandler.ListModels)
		models.DELETE("/:model_id", voiceHandler.DeleteModel)
	}
}
