package handlers

import (
	"net/http"

	"sportzone/models"
	"sportzone/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Normalized gateway event types accepted on the webhook.
const (
	webhookPaymentSucceeded = "payment.succeeded"
	webhookPaymentFailed    = "payment.failed"
)

// WebhookHandler receives normalized payment events. The raw gateway
// callback is verified and translated upstream; this endpoint only sees the
// normalized shape and must stay idempotent under redelivery.
type WebhookHandler struct {
	Handler *payment.EventHandler
	Logger  *zap.Logger
}

type webhookInput struct {
	Type      string `json:"type" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	BookingID string `json:"bookingId"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
}

// HandlePaymentEvent handles POST /webhooks/payment.
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	var input webhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var err error
	switch input.Type {
	case webhookPaymentSucceeded:
		err = h.Handler.HandlePaymentSucceeded(ctx, models.PaymentSucceededEvent{
			PaymentID: input.PaymentID,
			BookingID: input.BookingID,
			Amount:    input.Amount,
		})
	case webhookPaymentFailed:
		err = h.Handler.HandlePaymentFailed(ctx, models.PaymentFailedEvent{
			PaymentID: input.PaymentID,
			BookingID: input.BookingID,
			Reason:    input.Reason,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event type"})
		return
	}
	if err != nil {
		h.Logger.Error("payment webhook processing failed",
			zap.String("type", input.Type), zap.String("paymentID", input.PaymentID), zap.Error(err))
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
