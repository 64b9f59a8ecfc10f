package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signly/backend/internal/domain/shared"
)

// CreditKind distinguishes the two spendable credit pools.
// A create credit substitutes for the monthly creation quota, a publish
// credit for the active-document quota.
type CreditKind string

const (
	CreditKindCreate  CreditKind = "create"
	CreditKindPublish CreditKind = "publish"
)

// IsValid checks if the kind is a valid CreditKind
func (k CreditKind) IsValid() bool {
	return k == CreditKindCreate || k == CreditKindPublish
}

// String returns the string representation of CreditKind
func (k CreditKind) String() string {
	return string(k)
}

// TransactionType classifies ledger entries
type TransactionType string

const (
	TransactionTypePurchase  TransactionType = "purchase"
	TransactionTypeDeduction TransactionType = "deduction"
	TransactionTypeRefund    TransactionType = "refund"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeDeduction, TransactionTypeRefund:
		return true
	}
	return false
}

// CreditBalance holds a user's spendable credits. Rows are created lazily;
// a missing row reads as a zero balance. Both counters are invariantly >= 0,
// enforced by conditional updates in the repository, never by application
// level read-modify-write.
type CreditBalance struct {
	UserID         uuid.UUID
	CreateCredits  int
	PublishCredits int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ZeroBalance returns the balance an absent row represents
func ZeroBalance(userID uuid.UUID) *CreditBalance {
	return &CreditBalance{UserID: userID}
}

// Credits returns the counter for the given kind
func (b *CreditBalance) Credits(kind CreditKind) int {
	if kind == CreditKindCreate {
		return b.CreateCredits
	}
	return b.PublishCredits
}

// CreditTransaction is an append-only ledger row justifying a balance change.
// Deltas are signed: purchases and refunds are positive, deductions negative.
// Summing deltas per user must reconcile exactly with CreditBalance; the
// repository writes both inside one database transaction.
type CreditTransaction struct {
	shared.BaseEntity
	UserID              uuid.UUID
	Type                TransactionType
	CreateCreditsDelta  int
	PublishCreditsDelta int
	DocumentID          *uuid.UUID
	ExternalRef         *string
	AmountPaid          *decimal.Decimal
}

// NewDeductionTransaction records spending one credit of the given kind on a document
func NewDeductionTransaction(userID uuid.UUID, kind CreditKind, documentID uuid.UUID) (*CreditTransaction, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_CREDIT_KIND", "Invalid credit kind")
	}
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	tx := &CreditTransaction{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       TransactionTypeDeduction,
		DocumentID: &documentID,
	}
	tx.applyDelta(kind, -1)
	return tx, nil
}

// NewRefundTransaction records returning one credit of the given kind for a document
func NewRefundTransaction(userID uuid.UUID, kind CreditKind, documentID uuid.UUID) (*CreditTransaction, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_CREDIT_KIND", "Invalid credit kind")
	}
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	tx := &CreditTransaction{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       TransactionTypeRefund,
		DocumentID: &documentID,
	}
	tx.applyDelta(kind, 1)
	return tx, nil
}

// NewPurchaseTransaction records a credit grant from an external payment.
// The external reference keeps repeated webhook deliveries idempotent; a
// unique index on it rejects duplicates at the store.
func NewPurchaseTransaction(userID uuid.UUID, quantity int, externalRef string, amountPaid decimal.Decimal) (*CreditTransaction, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Grant quantity must be positive")
	}
	if externalRef == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "External payment reference cannot be empty")
	}
	if amountPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	return &CreditTransaction{
		BaseEntity:          shared.NewBaseEntity(),
		UserID:              userID,
		Type:                TransactionTypePurchase,
		CreateCreditsDelta:  quantity,
		PublishCreditsDelta: quantity,
		ExternalRef:         &externalRef,
		AmountPaid:          &amountPaid,
	}, nil
}

func (t *CreditTransaction) applyDelta(kind CreditKind, delta int) {
	if kind == CreditKindCreate {
		t.CreateCreditsDelta = delta
	} else {
		t.PublishCreditsDelta = delta
	}
}

// Kind returns the credit kind a single-kind transaction touches.
// Purchases touch both pools and report create by convention.
func (t *CreditTransaction) Kind() CreditKind {
	if t.CreateCreditsDelta != 0 {
		return CreditKindCreate
	}
	return CreditKindPublish
}
