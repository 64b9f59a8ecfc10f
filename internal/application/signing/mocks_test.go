package signing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/domain/signing"
	"github.com/stretchr/testify/mock"
)

// MockDocumentRepository is a mock implementation of signing.DocumentRepository
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

// MockSignatureAreaRepository is a mock implementation of signing.SignatureAreaRepository
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

// MockPublicationRepository is a mock implementation of signing.PublicationRepository
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

// MockEntitlementChecker is a mock implementation of EntitlementChecker
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

// MockCreditSpender is a mock implementation of CreditSpender
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

// MockUsageRecorder is a mock implementation of UsageRecorder
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

// MockObjectStorage is a mock implementation of ObjectStorageService
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

// MockPublicationCompleter is a mock implementation of PublicationCompleter
type MockPublicationCompleter struct {
	mock.Mock
}

func (m *MockPublicationCompleter) CheckAndComplete(ctx context.Context, publicationID uuid.UUID) error {
	args := m.Called(ctx, publicationID)
	return args.Error(0)
}

// MockShortURLCache is a mock implementation of ShortURLCache
type MockShortURLCache struct {
	mock.Mock
}

func (m *MockShortURLCache) GetPublicationID(ctx context.Context, shortURL string) (uuid.UUID, error) {
	args := m.Called(ctx, shortURL)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockShortURLCache) SetPublicationID(ctx context.Context, shortURL string, id uuid.UUID) error {
	args := m.Called(ctx, shortURL, id)
	return args.Error(0)
}

func (m *MockShortURLCache) Invalidate(ctx context.Context, shortURL string) error {
	args := m.Called(ctx, shortURL)
	return args.Error(0)
}
