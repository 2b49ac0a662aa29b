package bookings

import (
	"denchetravel/internal/shared/config"
	"denchetravel/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := router.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("", controller.CreateBooking)                // POST /api/v1/bookings
		bookings.GET("", controller.GetBookings)                   // GET /api/v1/bookings (all for admins)
		bookings.GET("/:id", controller.GetBooking)                // GET /api/v1/bookings/:id
		bookings.POST("/:id/cancel", controller.CancelBooking)     // POST /api/v1/bookings/:id/cancel
		bookings.POST("/:id/pay-balance", controller.PayBalance)   // POST /api/v1/bookings/:id/pay-balance
	}
}
