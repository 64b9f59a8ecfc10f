package billing

import (
	"fmt"

	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds configuration for Stripe integration
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// PublishableKey is the Stripe publishable key for frontend (pk_test_xxx or pk_live_xxx)
	PublishableKey string `json:"publishable_key" mapstructure:"publishable_key"`

	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string `json:"webhook_secret" mapstructure:"webhook_secret"`

	// IsTestMode indicates if using Stripe test mode
	IsTestMode bool `json:"is_test_mode" mapstructure:"is_test_mode"`

	// DefaultCurrency is the default currency for credit purchases (e.g., "usd", "eur")
	DefaultCurrency string `json:"default_currency" mapstructure:"default_currency"`

	// CreditPacks maps Stripe Price IDs to the number of credits they grant.
	// Used as a fallback when a checkout session carries no quantity metadata.
	CreditPacks map[string]int `json:"credit_packs" mapstructure:"credit_packs"`

	// SuccessURL is the URL to redirect after successful checkout
	SuccessURL string `json:"success_url" mapstructure:"success_url"`

	// CancelURL is the URL to redirect after cancelled checkout
	CancelURL string `json:"cancel_url" mapstructure:"cancel_url"`
}

// DefaultStripeConfig returns a default configuration for development/testing
func DefaultStripeConfig() *StripeConfig {
	return &StripeConfig{
		IsTestMode:      true,
		DefaultCurrency: "usd",
		CreditPacks: map[string]int{
			"price_credits_5":  5,  // Replace with actual Stripe Price IDs
			"price_credits_20": 20, // Replace with actual Stripe Price IDs
		},
	}
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}

	// Validate key format
	if c.IsTestMode {
		if len(c.SecretKey) > 7 && c.SecretKey[:7] != "sk_test" {
			return fmt.Errorf("stripe: test mode enabled but secret key is not a test key")
		}
	} else {
		if len(c.SecretKey) > 7 && c.SecretKey[:7] != "sk_live" {
			return fmt.Errorf("stripe: live mode enabled but secret key is not a live key")
		}
	}

	if c.DefaultCurrency == "" {
		return fmt.Errorf("stripe: default currency is required")
	}

	return nil
}

// PackQuantity returns the credit quantity a Stripe price grants
func (c *StripeConfig) PackQuantity(priceID string) (int, bool) {
	quantity, exists := c.CreditPacks[priceID]
	return quantity, exists
}

// InitStripeClient initializes the Stripe client with the configured API key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
