package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appbilling "github.com/signly/backend/internal/application/billing"
	"github.com/signly/backend/internal/domain/billing"
	infrabilling "github.com/signly/backend/internal/infrastructure/billing"
)

// BillingHandler exposes the caller's entitlements and credit ledger
type BillingHandler struct {
	BaseHandler
	entitlements *appbilling.EntitlementService
	credits      *appbilling.CreditService
	checkout     *infrabilling.StripeCheckout
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(entitlements *appbilling.EntitlementService, credits *appbilling.CreditService) *BillingHandler {
	return &BillingHandler{entitlements: entitlements, credits: credits}
}

// SetCheckout wires the Stripe checkout integration. Without it the purchase
// endpoint is not registered.
func (h *BillingHandler) SetCheckout(checkout *infrabilling.StripeCheckout) {
	h.checkout = checkout
}

// RegisterRoutes registers billing routes on the API group
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/entitlements/limits", h.GetLimits)
	rg.GET("/entitlements/plan", h.GetPlan)

	credits := rg.Group("/credits")
	{
		credits.GET("/balance", h.GetBalance)
		credits.GET("/transactions", h.ListTransactions)
		if h.checkout != nil {
			credits.POST("/checkout", h.CreateCheckout)
		}
	}
}

// CreateCheckoutRequest starts a credit pack purchase
type CreateCheckoutRequest struct {
	PriceID string `json:"price_id" binding:"required"`
}

// CreateCheckout creates a Stripe checkout session for a credit pack
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	out, err := h.checkout.CreateCreditCheckout(c.Request.Context(), infrabilling.CreateCheckoutInput{
		UserID:  userID,
		PriceID: req.PriceID,
	})
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.Created(c, out)
}

// PlanResponse is the caller's view of their effective plan
type PlanResponse struct {
	Code                 string `json:"code"`
	Name                 string `json:"name"`
	MonthlyDocumentLimit int    `json:"monthly_document_limit"`
	ActiveDocumentLimit  int    `json:"active_document_limit"`
}

// CreditBalanceResponse carries the caller's current credit counters
type CreditBalanceResponse struct {
	CreateCredits  int `json:"create_credits"`
	PublishCredits int `json:"publish_credits"`
}

// CreditTransactionResponse is one ledger entry
type CreditTransactionResponse struct {
	ID                  string           `json:"id"`
	Type                string           `json:"type"`
	CreateCreditsDelta  int              `json:"create_credits_delta"`
	PublishCreditsDelta int              `json:"publish_credits_delta"`
	DocumentID          *string          `json:"document_id,omitempty"`
	ExternalRef         *string          `json:"external_ref,omitempty"`
	AmountPaid          *decimal.Decimal `json:"amount_paid,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
}

func toCreditTransactionResponse(tx *billing.CreditTransaction) CreditTransactionResponse {
	resp := CreditTransactionResponse{
		ID:                  tx.ID.String(),
		Type:                string(tx.Type),
		CreateCreditsDelta:  tx.CreateCreditsDelta,
		PublishCreditsDelta: tx.PublishCreditsDelta,
		ExternalRef:         tx.ExternalRef,
		AmountPaid:          tx.AmountPaid,
		CreatedAt:           tx.CreatedAt,
	}
	if tx.DocumentID != nil {
		id := tx.DocumentID.String()
		resp.DocumentID = &id
	}
	return resp
}

// GetLimits returns the caller's plan limits and current usage
func (h *BillingHandler) GetLimits(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	limits, err := h.entitlements.GetLimits(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, limits)
}

// GetPlan returns the caller's effective subscription plan
func (h *BillingHandler) GetPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	plan, err := h.entitlements.ResolveEffectivePlan(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PlanResponse{
		Code:                 plan.Code,
		Name:                 plan.Name,
		MonthlyDocumentLimit: plan.MonthlyDocumentLimit,
		ActiveDocumentLimit:  plan.ActiveDocumentLimit,
	})
}

// GetBalance returns the caller's current credit balance
func (h *BillingHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	balance, err := h.credits.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CreditBalanceResponse{
		CreateCredits:  balance.CreateCredits,
		PublishCredits: balance.PublishCredits,
	})
}

// ListTransactions returns the caller's credit ledger, newest first
func (h *BillingHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := parseListFilter(c)
	page, err := h.credits.ListTransactions(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]CreditTransactionResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toCreditTransactionResponse(&page.Items[i]))
	}
	h.SuccessWithMeta(c, items, page.Total, filter.Page, filter.PageSize)
}
