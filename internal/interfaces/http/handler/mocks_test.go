package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/domain/signing"
)

// MockDocumentRepository implements signing.DocumentRepository for testing
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*signing.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*signing.Document, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByIDsForOwner(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*signing.Document, error) {
	args := m.Called(ctx, ownerID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*signing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByPublicationID(ctx context.Context, publicationID uuid.UUID) ([]*signing.Document, error) {
	args := m.Called(ctx, publicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*signing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]signing.Document, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]signing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]signing.Document, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]signing.Document), args.Error(1)
}

func (m *MockDocumentRepository) LinkToPublication(ctx context.Context, publicationID uuid.UUID, documentIDs []uuid.UUID) error {
	args := m.Called(ctx, publicationID, documentIDs)
	return args.Error(0)
}

func (m *MockDocumentRepository) UnlinkFromPublication(ctx context.Context, publicationID uuid.UUID) error {
	args := m.Called(ctx, publicationID)
	return args.Error(0)
}

func (m *MockDocumentRepository) TransitionStatus(ctx context.Context, documentID uuid.UUID, from, to signing.DocumentStatus) (bool, error) {
	args := m.Called(ctx, documentID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) SoftDeleteByPublicationID(ctx context.Context, publicationID uuid.UUID) error {
	args := m.Called(ctx, publicationID)
	return args.Error(0)
}

func (m *MockDocumentRepository) HardDelete(ctx context.Context, documentID uuid.UUID) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *signing.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSignatureAreaRepository implements signing.SignatureAreaRepository for testing
type MockSignatureAreaRepository struct {
	mock.Mock
}

func (m *MockSignatureAreaRepository) FindByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*signing.SignatureArea, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*signing.SignatureArea), args.Error(1)
}

func (m *MockSignatureAreaRepository) FindByDocumentAndIndex(ctx context.Context, documentID uuid.UUID, areaIndex int) (*signing.SignatureArea, error) {
	args := m.Called(ctx, documentID, areaIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signing.SignatureArea), args.Error(1)
}

func (m *MockSignatureAreaRepository) ReplaceForDocument(ctx context.Context, documentID uuid.UUID, areas []*signing.SignatureArea) error {
	args := m.Called(ctx, documentID, areas)
	return args.Error(0)
}

func (m *MockSignatureAreaRepository) Save(ctx context.Context, area *signing.SignatureArea) error {
	args := m.Called(ctx, area)
	return args.Error(0)
}

func (m *MockSignatureAreaRepository) CountPendingForDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSignatureAreaRepository) AnySignedForDocuments(ctx context.Context, documentIDs []uuid.UUID) (bool, error) {
	args := m.Called(ctx, documentIDs)
	return args.Bool(0), args.Error(1)
}

func (m *MockSignatureAreaRepository) DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

// MockPublicationRepository implements signing.PublicationRepository for testing
type MockPublicationRepository struct {
	mock.Mock
}

func (m *MockPublicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*signing.Publication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signing.Publication), args.Error(1)
}

func (m *MockPublicationRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*signing.Publication, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signing.Publication), args.Error(1)
}

func (m *MockPublicationRepository) FindByShortURL(ctx context.Context, shortURL string) (*signing.Publication, error) {
	args := m.Called(ctx, shortURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signing.Publication), args.Error(1)
}

func (m *MockPublicationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]signing.Publication, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]signing.Publication), args.Error(1)
}

func (m *MockPublicationRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]signing.Publication, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]signing.Publication), args.Error(1)
}

func (m *MockPublicationRepository) TransitionStatus(ctx context.Context, publicationID uuid.UUID, from, to signing.PublicationStatus) (bool, error) {
	args := m.Called(ctx, publicationID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockPublicationRepository) HardDelete(ctx context.Context, publicationID uuid.UUID) error {
	args := m.Called(ctx, publicationID)
	return args.Error(0)
}

func (m *MockPublicationRepository) Save(ctx context.Context, pub *signing.Publication) error {
	args := m.Called(ctx, pub)
	return args.Error(0)
}

func (m *MockPublicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPublicationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEntitlementChecker implements appsigning.EntitlementChecker for testing
type MockEntitlementChecker struct {
	mock.Mock
}

func (m *MockEntitlementChecker) CanCreateDocument(ctx context.Context, userID uuid.UUID) (billing.CreateDecision, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(billing.CreateDecision), args.Error(1)
}

func (m *MockEntitlementChecker) Snapshot(ctx context.Context, userID uuid.UUID) (billing.EntitlementSnapshot, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(billing.EntitlementSnapshot), args.Error(1)
}

// MockCreditSpender implements appsigning.CreditSpender for testing
type MockCreditSpender struct {
	mock.Mock
}

func (m *MockCreditSpender) Deduct(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error {
	args := m.Called(ctx, userID, kind, documentID)
	return args.Error(0)
}

func (m *MockCreditSpender) Refund(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error {
	args := m.Called(ctx, userID, kind, documentID)
	return args.Error(0)
}

func (m *MockCreditSpender) WasDeductedFor(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, kind, documentID)
	return args.Bool(0), args.Error(1)
}

// MockUsageRecorder implements appsigning.UsageRecorder for testing
type MockUsageRecorder struct {
	mock.Mock
}

func (m *MockUsageRecorder) IncrementCreated(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUsageRecorder) DecrementCreated(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUsageRecorder) IncrementActive(ctx context.Context, userID uuid.UUID, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

func (m *MockUsageRecorder) DecrementActive(ctx context.Context, userID uuid.UUID, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

// MockObjectStorage implements appsigning.ObjectStorageService for testing
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

// MockCreditRepository implements billing.CreditRepository for testing
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

// MockPlanRepository implements billing.PlanRepository for testing
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

func (m *MockPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.SubscriptionPlan, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.SubscriptionPlan), args.Error(1)
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

// MockSubscriptionRepository implements billing.SubscriptionRepository for testing
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

func (m *MockSubscriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Subscription, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]billing.Subscription, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindEffectiveForOwner(ctx context.Context, ownerID uuid.UUID, at time.Time) (*billing.Subscription, error) {
	args := m.Called(ctx, ownerID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
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

// MockMonthlyUsageRepository implements billing.MonthlyUsageRepository for testing
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
