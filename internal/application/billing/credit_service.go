package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreditService exposes the credit ledger to the lifecycle services and the
// HTTP layer. All balance arithmetic happens inside the repository as
// conditional updates; this layer adds validation and logging only.
type CreditService struct {
	creditRepo billing.CreditRepository
	logger     *zap.Logger
}

// NewCreditService creates a new CreditService
func NewCreditService(creditRepo billing.CreditRepository, logger *zap.Logger) *CreditService {
	return &CreditService{
		creditRepo: creditRepo,
		logger:     logger,
	}
}

// GetBalance returns the user's credit balance. A user who never purchased
// credits reads as a zero balance, not an error.
func (s *CreditService) GetBalance(ctx context.Context, userID uuid.UUID) (*billing.CreditBalance, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return s.creditRepo.GetBalance(ctx, userID)
}

// ListTransactions returns the user's ledger, newest first
func (s *CreditService) ListTransactions(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.CreditTransaction], error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return s.creditRepo.ListTransactions(ctx, userID, filter)
}

// Deduct spends one credit of the given kind against a document.
// Returns shared.ErrInsufficientCredit when the balance is exhausted.
func (s *CreditService) Deduct(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error {
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_CREDIT_KIND", "Invalid credit kind")
	}

	if err := s.creditRepo.Deduct(ctx, userID, kind, documentID); err != nil {
		return err
	}

	s.logger.Info("Credit deducted",
		zap.String("user_id", userID.String()),
		zap.String("kind", kind.String()),
		zap.String("document_id", documentID.String()))
	return nil
}

// Refund returns one credit of the given kind for a document. Only a prior
// deduction that has not already been refunded is refundable.
func (s *CreditService) Refund(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error {
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_CREDIT_KIND", "Invalid credit kind")
	}

	if err := s.creditRepo.Refund(ctx, userID, kind, documentID); err != nil {
		return err
	}

	s.logger.Info("Credit refunded",
		zap.String("user_id", userID.String()),
		zap.String("kind", kind.String()),
		zap.String("document_id", documentID.String()))
	return nil
}

// WasDeductedFor reports whether a live deduction of the given kind exists
// for the document. The document delete flow uses this to decide whether a
// refund is due.
func (s *CreditService) WasDeductedFor(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) (bool, error) {
	return s.creditRepo.WasDeductedFor(ctx, userID, kind, documentID)
}

// Grant adds purchased credits to both pools and appends a purchase row to
// the ledger. The external reference keeps repeated deliveries of the same
// payment idempotent: a duplicate surfaces as shared.ErrDuplicateGrant.
func (s *CreditService) Grant(ctx context.Context, userID uuid.UUID, quantity int, externalRef string, amountPaid decimal.Decimal) error {
	entry, err := billing.NewPurchaseTransaction(userID, quantity, externalRef, amountPaid)
	if err != nil {
		return err
	}

	if err := s.creditRepo.Grant(ctx, entry); err != nil {
		return err
	}

	s.logger.Info("Credits granted",
		zap.String("user_id", userID.String()),
		zap.Int("quantity", quantity),
		zap.String("external_ref", externalRef))
	return nil
}
