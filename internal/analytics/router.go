package analytics

import (
	"denchetravel/internal/shared/config"
	"denchetravel/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", controller.GetDashboard) // GET /api/v1/admin/dashboard
	}
}
