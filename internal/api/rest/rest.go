package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-events/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Event endpoints (public read access)
		v1.GET("/events", handler.ListEvents)
		v1.GET("/events/:id", handler.GetEvent)

		// Event creation (requires authentication)
		v1.POST("/events", middleware.Auth(authCfg), handler.CreateEvent)
		v1.POST("/events/:id/finalize", middleware.Auth(authCfg), handler.FinalizeEvent)

		// Provider metrics (public read access)
		v1.GET("/health/metrics", handler.GetMetrics)

		// Reconciliation (requires API key authentication only)
		admin := v1.Group("/admin", middleware.APIKeyAuth(authCfg))
		admin.POST("/consistency-check", handler.RunConsistencyCheck)
		admin.POST("/data-sync", handler.RunDataSync)
		admin.GET("/runs", handler.ListRuns)
	}
}
