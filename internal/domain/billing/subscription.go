package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/shared"
)

// SubscriptionStatus represents the status of a user's subscription
type SubscriptionStatus string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// IsValid checks if the status is a valid SubscriptionStatus
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusTrial, SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of SubscriptionStatus
func (s SubscriptionStatus) String() string {
	return string(s)
}

// Subscription links a user to a plan for a period of time.
// A user's effective plan is their most recent subscription that is active
// and not past its end date; users without one fall back to the lowest-rank
// active plan.
type Subscription struct {
	shared.OwnedAggregateRoot
	PlanID   uuid.UUID
	Status   SubscriptionStatus
	StartsAt time.Time
	EndsAt   *time.Time
}

// NewSubscription creates a new subscription for a user
func NewSubscription(ownerID, planID uuid.UUID, status SubscriptionStatus, startsAt time.Time, endsAt *time.Time) (*Subscription, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if planID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan ID cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid subscription status")
	}
	if endsAt != nil && !endsAt.After(startsAt) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Subscription end must be after its start")
	}

	return &Subscription{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		PlanID:             planID,
		Status:             status,
		StartsAt:           startsAt,
		EndsAt:             endsAt,
	}, nil
}

// IsEffectiveAt reports whether this subscription grants its plan at the
// given instant: status is active and the end date, if any, has not passed.
func (s *Subscription) IsEffectiveAt(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.EndsAt == nil || s.EndsAt.After(now)
}

// Cancel marks the subscription cancelled
func (s *Subscription) Cancel(now time.Time) error {
	if s.Status == SubscriptionStatusCancelled || s.Status == SubscriptionStatusExpired {
		return shared.ErrInvalidState
	}
	s.Status = SubscriptionStatusCancelled
	s.EndsAt = &now
	s.UpdatedAt = now
	return nil
}
