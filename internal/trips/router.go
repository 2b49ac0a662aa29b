package trips

import (
	"denchetravel/internal/shared/config"
	"denchetravel/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTripRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Public routes - catalog browsing
	publicTrips := router.Group("/trips")
	{
		publicTrips.GET("", controller.GetTrips)            // GET /api/v1/trips (?featured=true)
		publicTrips.GET("/:slug", controller.GetTripBySlug) // GET /api/v1/trips/:slug
	}

	// Admin routes - catalog management
	adminTrips := router.Group("/admin/trips")
	adminTrips.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		adminTrips.POST("", controller.CreateTrip)       // POST /api/v1/admin/trips
		adminTrips.PUT("/:id", controller.UpdateTrip)    // PUT /api/v1/admin/trips/:id
		adminTrips.DELETE("/:id", controller.DeleteTrip) // DELETE /api/v1/admin/trips/:id
	}
}
