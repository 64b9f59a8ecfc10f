package billing

import (
	"github.com/signly/backend/internal/domain/shared"
)

// UnlimitedLimit marks a plan limit as unbounded.
const UnlimitedLimit = -1

// SubscriptionPlan is immutable reference data describing what a plan allows.
// MonthlyDocumentLimit caps document creations per calendar month;
// ActiveDocumentLimit caps documents concurrently in published or completed
// status. A limit of -1 means unlimited. The plan with the lowest Rank among
// active plans is the free-tier fallback for users without a subscription.
type SubscriptionPlan struct {
	shared.BaseAggregateRoot
	Code                 string
	Name                 string
	MonthlyDocumentLimit int
	ActiveDocumentLimit  int
	Rank                 int
	IsActive             bool
	IsHidden             bool
}

// NewSubscriptionPlan creates a new subscription plan
func NewSubscriptionPlan(code, name string, monthlyLimit, activeLimit, rank int) (*SubscriptionPlan, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_CODE", "Plan code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_NAME", "Plan name cannot be empty")
	}
	if monthlyLimit < UnlimitedLimit {
		return nil, shared.NewDomainError("INVALID_LIMIT", "Monthly document limit must be -1 (unlimited) or non-negative")
	}
	if activeLimit < UnlimitedLimit {
		return nil, shared.NewDomainError("INVALID_LIMIT", "Active document limit must be -1 (unlimited) or non-negative")
	}

	return &SubscriptionPlan{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		Code:                 code,
		Name:                 name,
		MonthlyDocumentLimit: monthlyLimit,
		ActiveDocumentLimit:  activeLimit,
		Rank:                 rank,
		IsActive:             true,
	}, nil
}

// HasUnlimitedCreation returns true if the plan does not cap monthly creations
func (p *SubscriptionPlan) HasUnlimitedCreation() bool {
	return p.MonthlyDocumentLimit == UnlimitedLimit
}

// HasUnlimitedActive returns true if the plan does not cap active documents
func (p *SubscriptionPlan) HasUnlimitedActive() bool {
	return p.ActiveDocumentLimit == UnlimitedLimit
}
