package departures

import (
	"denchetravel/internal/shared/config"
	"denchetravel/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupDepartureRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Public routes - availability is always read live, never cached
	publicDepartures := router.Group("/departures")
	{
		publicDepartures.GET("/upcoming", controller.GetUpcomingDepartures) // GET /api/v1/departures/upcoming
		publicDepartures.GET("/:id", controller.GetDeparture)               // GET /api/v1/departures/:id
	}

	// Admin routes - departure scheduling
	adminDepartures := router.Group("/admin/departures")
	adminDepartures.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		adminDepartures.POST("", controller.CreateDeparture) // POST /api/v1/admin/departures
	}
}
