package billing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"go.uber.org/zap"
)

// CreateCheckoutInput describes a credit pack purchase
type CreateCheckoutInput struct {
	UserID  uuid.UUID
	PriceID string

	// SuccessURL and CancelURL override the configured redirect targets
	SuccessURL string
	CancelURL  string
}

// CheckoutSessionOutput carries the created checkout session details back to
// the caller. The frontend redirects to URL; SessionID becomes the ledger's
// external reference when the webhook lands.
type CheckoutSessionOutput struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	PriceID   string `json:"price_id"`
	Quantity  int    `json:"quantity"`
}

// StripeCheckout creates Stripe Checkout sessions for credit pack purchases.
// The session carries the buying user and the credit quantity in metadata so
// the webhook can attribute the grant without a lookup.
type StripeCheckout struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeCheckout creates a new StripeCheckout
func NewStripeCheckout(config *StripeConfig, logger *zap.Logger) (*StripeCheckout, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.InitStripeClient()

	return &StripeCheckout{
		config: config,
		logger: logger,
	}, nil
}

// CreateCreditCheckout creates a one-time payment checkout session for the
// credit pack behind the given price
func (s *StripeCheckout) CreateCreditCheckout(ctx context.Context, input CreateCheckoutInput) (*CheckoutSessionOutput, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("stripe: user ID is required")
	}
	quantity, ok := s.config.PackQuantity(input.PriceID)
	if !ok {
		return nil, fmt.Errorf("stripe: unknown credit pack price %q", input.PriceID)
	}

	successURL := input.SuccessURL
	if successURL == "" {
		successURL = s.config.SuccessURL
	}
	cancelURL := input.CancelURL
	if cancelURL == "" {
		cancelURL = s.config.CancelURL
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(input.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(input.UserID.String()),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		Metadata: map[string]string{
			"user_id":         input.UserID.String(),
			"credit_quantity": strconv.Itoa(quantity),
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		s.logger.Error("Failed to create checkout session",
			zap.String("user_id", input.UserID.String()),
			zap.String("price_id", input.PriceID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("user_id", input.UserID.String()),
		zap.String("session_id", sess.ID),
		zap.Int("credit_quantity", quantity))

	return &CheckoutSessionOutput{
		SessionID: sess.ID,
		URL:       sess.URL,
		PriceID:   input.PriceID,
		Quantity:  quantity,
	}, nil
}
