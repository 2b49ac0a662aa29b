package policies

import (
	"denchetravel/internal/shared/config"
	"denchetravel/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPolicyRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Public routes - policies are shown on trip pages before checkout
	publicPolicies := router.Group("/policies")
	{
		publicPolicies.GET("", controller.GetPolicies)    // GET /api/v1/policies - List refund policies
		publicPolicies.GET("/:id", controller.GetPolicy) // GET /api/v1/policies/:id - Policy details
	}

	// Admin routes - policy management
	adminPolicies := router.Group("/admin/policies")
	adminPolicies.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		adminPolicies.POST("", controller.CreatePolicy)       // POST /api/v1/admin/policies - Create policy
		adminPolicies.PUT("/:id", controller.UpdatePolicy)    // PUT /api/v1/admin/policies/:id - Update policy
		adminPolicies.DELETE("/:id", controller.DeletePolicy) // DELETE /api/v1/admin/policies/:id - Delete policy
	}
}
