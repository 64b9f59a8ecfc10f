package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbilling "github.com/signly/backend/internal/application/billing"
)

// maxWebhookBody caps an incoming webhook payload
const maxWebhookBody = 1 << 20 // 1MB

// WebhookHandler receives Stripe webhook events. Authenticated by the
// Stripe-Signature header, not by JWT.
type WebhookHandler struct {
	BaseHandler
	webhooks *appbilling.StripeWebhookService
	logger   *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks *appbilling.StripeWebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, logger: logger}
}

// RegisterRoutes registers webhook routes on the API group
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.HandleStripe)
}

// HandleStripe verifies and processes one Stripe event. Signature failures
// return 400 so Stripe retries; processing failures return 500 for the same
// reason. Duplicate deliveries are acknowledged as processed.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Failed to read webhook payload")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.BadRequest(c, "Missing Stripe-Signature header")
		return
	}

	result, err := h.webhooks.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		h.logger.Error("Stripe webhook processing failed", zap.Error(err))
		if result == nil {
			// signature verification never produced an event
			h.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Webhook signature verification failed")
			return
		}
		h.Error(c, http.StatusInternalServerError, "WEBHOOK_FAILED", "Failed to process webhook event")
		return
	}

	h.Success(c, result)
}
