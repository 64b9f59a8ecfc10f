package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntitlementService resolves a user's effective plan and assembles the
// snapshot the pure decision functions in domain/billing run on. Both
// lifecycle services consult it before spending quota or credits, so the
// limit arithmetic has exactly one source of truth.
type EntitlementService struct {
	planRepo         billing.PlanRepository
	subscriptionRepo billing.SubscriptionRepository
	usageRepo        billing.MonthlyUsageRepository
	creditRepo       billing.CreditRepository
	logger           *zap.Logger
	now              func() time.Time
}

// NewEntitlementService creates a new EntitlementService
func NewEntitlementService(
	planRepo billing.PlanRepository,
	subscriptionRepo billing.SubscriptionRepository,
	usageRepo billing.MonthlyUsageRepository,
	creditRepo billing.CreditRepository,
	logger *zap.Logger,
) *EntitlementService {
	return &EntitlementService{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		usageRepo:        usageRepo,
		creditRepo:       creditRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// ResolveEffectivePlan returns the plan governing the user right now: the
// plan of their most recent effective subscription, or the lowest-rank
// active plan for users without one.
func (s *EntitlementService) ResolveEffectivePlan(ctx context.Context, userID uuid.UUID) (*billing.SubscriptionPlan, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	now := s.now()
	sub, err := s.subscriptionRepo.FindEffectiveForOwner(ctx, userID, now)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.defaultPlan(ctx)
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	// The repository already filters to active, in-window rows; this guard
	// keeps a stale or hand-built row from granting a plan anyway.
	if !sub.IsEffectiveAt(now) {
		return s.defaultPlan(ctx)
	}

	plan, err := s.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// A subscription pointing at a missing plan is a data problem,
			// but the user still gets the free tier rather than an outage.
			s.logger.Error("Subscription references missing plan",
				zap.String("user_id", userID.String()),
				zap.String("plan_id", sub.PlanID.String()))
			return s.defaultPlan(ctx)
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	return plan, nil
}

// Snapshot captures the user's plan limits, current-month usage, and credit
// balance at one point in time. Decisions made on a snapshot are advisory;
// the conditional updates in the repositories remain the hard guard.
func (s *EntitlementService) Snapshot(ctx context.Context, userID uuid.UUID) (billing.EntitlementSnapshot, error) {
	plan, err := s.ResolveEffectivePlan(ctx, userID)
	if err != nil {
		return billing.EntitlementSnapshot{}, err
	}

	usage, err := s.usageRepo.GetOrCreateForMonth(ctx, userID, billing.YearMonthOf(s.now()))
	if err != nil {
		return billing.EntitlementSnapshot{}, fmt.Errorf("failed to load monthly usage: %w", err)
	}

	balance, err := s.creditRepo.GetBalance(ctx, userID)
	if err != nil {
		return billing.EntitlementSnapshot{}, fmt.Errorf("failed to load credit balance: %w", err)
	}

	return billing.EntitlementSnapshot{
		MonthlyDocumentLimit: plan.MonthlyDocumentLimit,
		ActiveDocumentLimit:  plan.ActiveDocumentLimit,
		DocumentsCreated:     usage.DocumentsCreated,
		ActiveDocuments:      usage.PublishedCompleted,
		CreateCredits:        balance.CreateCredits,
		PublishCredits:       balance.PublishCredits,
	}, nil
}

// GetLimits returns the quota summary shown to the user
func (s *EntitlementService) GetLimits(ctx context.Context, userID uuid.UUID) (billing.Limits, error) {
	snapshot, err := s.Snapshot(ctx, userID)
	if err != nil {
		return billing.Limits{}, err
	}
	return snapshot.Limits(), nil
}

// CanCreateDocument decides whether the user may create a document right now
func (s *EntitlementService) CanCreateDocument(ctx context.Context, userID uuid.UUID) (billing.CreateDecision, error) {
	snapshot, err := s.Snapshot(ctx, userID)
	if err != nil {
		return billing.CreateDecision{}, err
	}
	return snapshot.CanCreateDocument(), nil
}

// CanCreatePublication decides whether the user may publish documentCount
// documents at once
func (s *EntitlementService) CanCreatePublication(ctx context.Context, userID uuid.UUID, documentCount int) (billing.PublishDecision, error) {
	snapshot, err := s.Snapshot(ctx, userID)
	if err != nil {
		return billing.PublishDecision{}, err
	}
	return snapshot.CanCreatePublication(documentCount), nil
}

func (s *EntitlementService) defaultPlan(ctx context.Context) (*billing.SubscriptionPlan, error) {
	plan, err := s.planRepo.FindDefaultPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load default plan: %w", err)
	}
	return plan, nil
}
