package payments

import (
	"errors"
	"net/http"

	"denchetravel/internal/bookings"
	"denchetravel/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	processor Processor
	logger    *logger.Logger
}

func NewController(processor Processor, log *logger.Logger) *Controller {
	return &Controller{
		processor: processor,
		logger:    log,
	}
}

// HandleWebhook ingests provider payment events. The response body follows
// the provider contract, not the API envelope: {received:true} on any
// accepted event, non-2xx only when the delivery should be retried or was
// unverifiable.
func (ctrl *Controller) HandleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")

	err = ctrl.processor.HandleEvent(c.Request.Context(), payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			ctrl.logger.LogWebhookRejected(c.Request.Context(), "invalid signature", c.ClientIP())
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		case errors.Is(err, ErrMalformedPayload):
			ctrl.logger.LogWebhookRejected(c.Request.Context(), "malformed payload", c.ClientIP())
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		case errors.Is(err, bookings.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "booking state conflict"})
		case errors.Is(err, ErrOriginalPaymentNotFound):
			c.JSON(http.StatusConflict, gin.H{"error": "original payment not yet settled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
