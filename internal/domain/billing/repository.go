package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/shared"
)

// PlanRepository provides access to subscription plan reference data
type PlanRepository interface {
	shared.Repository[SubscriptionPlan]
	FindByCode(ctx context.Context, code string) (*SubscriptionPlan, error)
	FindDefaultPlan(ctx context.Context) (*SubscriptionPlan, error)
	FindVisiblePlans(ctx context.Context) ([]*SubscriptionPlan, error)
}

// SubscriptionRepository provides access to user subscriptions
type SubscriptionRepository interface {
	shared.OwnedRepository[Subscription]

	// FindEffectiveForOwner returns the most recent subscription that is
	// active and whose end date, if any, lies after the given instant.
	// Newer rows in other statuses must not shadow it.
	FindEffectiveForOwner(ctx context.Context, ownerID uuid.UUID, at time.Time) (*Subscription, error)
}

// CreditRepository manages the credit balance and its ledger together.
// Implementations must apply every balance mutation as a single conditional
// update and append the matching ledger row in the same database
// transaction, so the ledger always reconciles with the balance.
type CreditRepository interface {
	// GetBalance returns the user's balance, or a zero balance if no row exists
	GetBalance(ctx context.Context, userID uuid.UUID) (*CreditBalance, error)

	// Deduct spends one credit of the given kind against a document.
	// Returns shared.ErrInsufficientCredit when the balance would go negative.
	Deduct(ctx context.Context, userID uuid.UUID, kind CreditKind, documentID uuid.UUID) error

	// Refund returns one credit of the given kind for a document
	Refund(ctx context.Context, userID uuid.UUID, kind CreditKind, documentID uuid.UUID) error

	// Grant adds purchased credits to both pools. Returns
	// shared.ErrDuplicateGrant when externalRef was already recorded.
	Grant(ctx context.Context, tx *CreditTransaction) error

	// WasDeductedFor reports whether a deduction of the given kind exists for
	// the document, net of refunds
	WasDeductedFor(ctx context.Context, userID uuid.UUID, kind CreditKind, documentID uuid.UUID) (bool, error)

	// ListTransactions returns the user's ledger, newest first
	ListTransactions(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[CreditTransaction], error)
}

// MonthlyUsageRepository manages per-month usage counters. Increments and
// decrements are single atomic statements; decrements floor at zero instead
// of failing.
type MonthlyUsageRepository interface {
	// GetOrCreateForMonth returns the usage row for the month, inserting a
	// zeroed row on first access
	GetOrCreateForMonth(ctx context.Context, userID uuid.UUID, month YearMonth) (*MonthlyUsage, error)

	IncrementCreated(ctx context.Context, userID uuid.UUID, month YearMonth) error
	DecrementCreated(ctx context.Context, userID uuid.UUID, month YearMonth) error
	IncrementActive(ctx context.Context, userID uuid.UUID, month YearMonth, delta int) error
	DecrementActive(ctx context.Context, userID uuid.UUID, month YearMonth, delta int) error
}
