package payments

import (
	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(router *gin.RouterGroup, controller *Controller) {
	// No auth middleware: the provider authenticates with the signature header
	payments := router.Group("/payments")
	{
		payments.POST("/webhook", controller.HandleWebhook) // POST /api/v1/payments/webhook
	}
}
