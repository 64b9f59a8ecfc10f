package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UsageService keys all counter mutations to the current calendar month.
// The repository applies each mutation as one atomic statement; callers must
// route every document status transition through exactly one call here.
type UsageService struct {
	usageRepo billing.MonthlyUsageRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewUsageService creates a new UsageService
func NewUsageService(usageRepo billing.MonthlyUsageRepository, logger *zap.Logger) *UsageService {
	return &UsageService{
		usageRepo: usageRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// CurrentMonth returns the usage key for the service clock's current month
func (s *UsageService) CurrentMonth() billing.YearMonth {
	return billing.YearMonthOf(s.now())
}

// GetOrCreateCurrentMonth returns the current month's usage row, creating a
// zeroed row on first access
func (s *UsageService) GetOrCreateCurrentMonth(ctx context.Context, userID uuid.UUID) (*billing.MonthlyUsage, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return s.usageRepo.GetOrCreateForMonth(ctx, userID, s.CurrentMonth())
}

// IncrementCreated records one document creation in the current month
func (s *UsageService) IncrementCreated(ctx context.Context, userID uuid.UUID) error {
	return s.usageRepo.IncrementCreated(ctx, userID, s.CurrentMonth())
}

// DecrementCreated reverts one document creation. The counter floors at
// zero, so reverting against an empty month is harmless.
func (s *UsageService) DecrementCreated(ctx context.Context, userID uuid.UUID) error {
	return s.usageRepo.DecrementCreated(ctx, userID, s.CurrentMonth())
}

// IncrementActive raises the active-document count by delta
func (s *UsageService) IncrementActive(ctx context.Context, userID uuid.UUID, delta int) error {
	return s.usageRepo.IncrementActive(ctx, userID, s.CurrentMonth(), delta)
}

// DecrementActive lowers the active-document count by delta, flooring at zero
func (s *UsageService) DecrementActive(ctx context.Context, userID uuid.UUID, delta int) error {
	return s.usageRepo.DecrementActive(ctx, userID, s.CurrentMonth(), delta)
}
