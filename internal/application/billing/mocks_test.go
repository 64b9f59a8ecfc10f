package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockPlanRepository is a mock implementation of billing.PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SubscriptionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) FindByCode(ctx context.Context, code string) (*billing.SubscriptionPlan, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) FindDefaultPlan(ctx context.Context) (*billing.SubscriptionPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) FindVisiblePlans(ctx context.Context) ([]*billing.SubscriptionPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.SubscriptionPlan, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *billing.SubscriptionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of billing.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindEffectiveForOwner(ctx context.Context, ownerID uuid.UUID, at time.Time) (*billing.Subscription, error) {
	args := m.Called(ctx, ownerID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Subscription, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]billing.Subscription, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, sub *billing.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCreditRepository is a mock implementation of billing.CreditRepository
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*billing.CreditBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CreditBalance), args.Error(1)
}

func (m *MockCreditRepository) Deduct(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error {
	args := m.Called(ctx, userID, kind, documentID)
	return args.Error(0)
}

func (m *MockCreditRepository) Refund(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error {
	args := m.Called(ctx, userID, kind, documentID)
	return args.Error(0)
}

func (m *MockCreditRepository) Grant(ctx context.Context, tx *billing.CreditTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCreditRepository) WasDeductedFor(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, kind, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCreditRepository) ListTransactions(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.CreditTransaction], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.CreditTransaction]), args.Error(1)
}

// MockMonthlyUsageRepository is a mock implementation of billing.MonthlyUsageRepository
type MockMonthlyUsageRepository struct {
	mock.Mock
}

func (m *MockMonthlyUsageRepository) GetOrCreateForMonth(ctx context.Context, userID uuid.UUID, month billing.YearMonth) (*billing.MonthlyUsage, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MonthlyUsage), args.Error(1)
}

func (m *MockMonthlyUsageRepository) IncrementCreated(ctx context.Context, userID uuid.UUID, month billing.YearMonth) error {
	args := m.Called(ctx, userID, month)
	return args.Error(0)
}

func (m *MockMonthlyUsageRepository) DecrementCreated(ctx context.Context, userID uuid.UUID, month billing.YearMonth) error {
	args := m.Called(ctx, userID, month)
	return args.Error(0)
}

func (m *MockMonthlyUsageRepository) IncrementActive(ctx context.Context, userID uuid.UUID, month billing.YearMonth, delta int) error {
	args := m.Called(ctx, userID, month, delta)
	return args.Error(0)
}

func (m *MockMonthlyUsageRepository) DecrementActive(ctx context.Context, userID uuid.UUID, month billing.YearMonth, delta int) error {
	args := m.Called(ctx, userID, month, delta)
	return args.Error(0)
}
