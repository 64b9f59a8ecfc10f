package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signly/backend/internal/domain/shared"
	infrabilling "github.com/signly/backend/internal/infrastructure/billing"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// StripeWebhookService turns verified Stripe checkout events into credit
// grants. Stripe redelivers events until acknowledged, so every handler is
// idempotent: the ledger's unique external reference absorbs duplicates.
type StripeWebhookService struct {
	config        *infrabilling.StripeConfig
	creditService *CreditService
	logger        *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(config *infrabilling.StripeConfig, creditService *CreditService, logger *zap.Logger) *StripeWebhookService {
	return &StripeWebhookService{
		config:        config,
		creditService: creditService,
		logger:        logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies the payload signature and dispatches the event
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		s.logger.Error("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		err = s.handleCheckoutCompleted(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

// handleCheckoutCompleted grants the purchased credits for a paid checkout
// session. Unpaid sessions and sessions we cannot attribute are acknowledged
// without a grant so Stripe stops retrying.
func (s *StripeWebhookService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		s.logger.Info("Checkout session not paid yet, skipping",
			zap.String("session_id", session.ID),
			zap.String("payment_status", string(session.PaymentStatus)))
		return nil
	}

	userID, err := s.extractUserID(session)
	if err != nil {
		// Note: attribution failures are not treated as errors because the
		// session may not belong to our system. We acknowledge receipt to
		// prevent Stripe retries.
		s.logger.Warn("Checkout session has no attributable user, skipping",
			zap.String("session_id", session.ID),
			zap.Error(err))
		return nil
	}

	quantity, err := s.extractQuantity(session)
	if err != nil {
		s.logger.Warn("Checkout session has no credit quantity, skipping",
			zap.String("session_id", session.ID),
			zap.Error(err))
		return nil
	}

	// AmountTotal is in the currency's smallest unit
	amountPaid := decimal.New(session.AmountTotal, -2)

	err = s.creditService.Grant(ctx, userID, quantity, session.ID, amountPaid)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateGrant) {
			s.logger.Info("Checkout session already granted, acknowledging redelivery",
				zap.String("session_id", session.ID),
				zap.String("user_id", userID.String()))
			return nil
		}
		return fmt.Errorf("failed to grant credits: %w", err)
	}

	s.logger.Info("Checkout session granted credits",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID.String()),
		zap.Int("quantity", quantity))

	return nil
}

// extractUserID reads the purchasing user from the session. The checkout
// flow sets client_reference_id; metadata is the fallback for sessions
// created through the dashboard.
func (s *StripeWebhookService) extractUserID(session stripe.CheckoutSession) (uuid.UUID, error) {
	raw := session.ClientReferenceID
	if raw == "" {
		raw = session.Metadata["user_id"]
	}
	if raw == "" {
		return uuid.Nil, fmt.Errorf("no client reference or user_id metadata")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q: %w", raw, err)
	}
	return userID, nil
}

// extractQuantity reads the credit quantity from session metadata, falling
// back to the configured credit pack for the purchased price
func (s *StripeWebhookService) extractQuantity(session stripe.CheckoutSession) (int, error) {
	if raw, ok := session.Metadata["credit_quantity"]; ok {
		quantity, err := strconv.Atoi(raw)
		if err != nil || quantity <= 0 {
			return 0, fmt.Errorf("invalid credit_quantity metadata %q", raw)
		}
		return quantity, nil
	}

	if raw, ok := session.Metadata["price_id"]; ok {
		if quantity, exists := s.config.PackQuantity(raw); exists {
			return quantity, nil
		}
	}

	return 0, fmt.Errorf("no credit_quantity metadata or known price_id")
}
