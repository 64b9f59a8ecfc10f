package signing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/domain/signing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type documentFixture struct {
	service      *DocumentService
	docRepo      *MockDocumentRepository
	areaRepo     *MockSignatureAreaRepository
	pubRepo      *MockPublicationRepository
	entitlements *MockEntitlementChecker
	credits      *MockCreditSpender
	usage        *MockUsageRecorder
	storage      *MockObjectStorage
}

func newDocumentFixture() *documentFixture {
	f := &documentFixture{
		docRepo:      new(MockDocumentRepository),
		areaRepo:     new(MockSignatureAreaRepository),
		pubRepo:      new(MockPublicationRepository),
		entitlements: new(MockEntitlementChecker),
		credits:      new(MockCreditSpender),
		usage:        new(MockUsageRecorder),
		storage:      new(MockObjectStorage),
	}
	f.service = NewDocumentService(f.docRepo, f.areaRepo, f.pubRepo,
		f.entitlements, f.credits, f.usage, f.storage, zap.NewNop())
	return f
}

func uploadInput() CreateDocumentInput {
	return CreateDocumentInput{
		Filename:    "contract.png",
		ContentType: "image/png",
		Data:        []byte("fake image bytes"),
	}
}

func draftDocument(t *testing.T, ownerID uuid.UUID) *signing.Document {
	t.Helper()
	doc, err := signing.NewDocument(ownerID, "contract.png", "documents/x/y.png", nil)
	require.NoError(t, err)
	return doc
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("within quota stores file, saves draft, counts creation", func(t *testing.T) {
		f := newDocumentFixture()
		f.entitlements.On("CanCreateDocument", ctx, userID).Return(billing.CreateDecision{CanCreate: true}, nil)
		f.storage.On("Upload", ctx, mock.AnythingOfType("string"), mock.Anything, "image/png").Return(nil)
		f.docRepo.On("Save", ctx, mock.AnythingOfType("*signing.Document")).Return(nil)
		f.usage.On("IncrementCreated", ctx, userID).Return(nil)

		doc, err := f.service.Create(ctx, userID, uploadInput())

		require.NoError(t, err)
		assert.Equal(t, signing.DocumentStatusDraft, doc.Status)
		assert.Equal(t, userID, doc.OwnerID)
		f.credits.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.usage.AssertExpectations(t)
	})

	t.Run("past quota spends a create credit on the new document", func(t *testing.T) {
		f := newDocumentFixture()
		f.entitlements.On("CanCreateDocument", ctx, userID).Return(billing.CreateDecision{CanCreate: true, UsingCredit: true}, nil)
		f.storage.On("Upload", ctx, mock.AnythingOfType("string"), mock.Anything, "image/png").Return(nil)
		f.docRepo.On("Save", ctx, mock.AnythingOfType("*signing.Document")).Return(nil)
		f.usage.On("IncrementCreated", ctx, userID).Return(nil)

		var createdID uuid.UUID
		f.credits.On("Deduct", ctx, userID, billing.CreditKindCreate, mock.AnythingOfType("uuid.UUID")).
			Run(func(args mock.Arguments) { createdID = args.Get(3).(uuid.UUID) }).
			Return(nil)

		doc, err := f.service.Create(ctx, userID, uploadInput())

		require.NoError(t, err)
		assert.Equal(t, doc.ID, createdID)
		f.credits.AssertExpectations(t)
	})

	t.Run("denied entitlement touches nothing", func(t *testing.T) {
		f := newDocumentFixture()
		f.entitlements.On("CanCreateDocument", ctx, userID).Return(billing.CreateDecision{}, nil)

		_, err := f.service.Create(ctx, userID, uploadInput())

		assert.ErrorIs(t, err, shared.ErrQuotaExceeded)
		f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.docRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("failed deduction unwinds counter, row, and file", func(t *testing.T) {
		f := newDocumentFixture()
		f.entitlements.On("CanCreateDocument", ctx, userID).Return(billing.CreateDecision{CanCreate: true, UsingCredit: true}, nil)
		f.storage.On("Upload", ctx, mock.AnythingOfType("string"), mock.Anything, "image/png").Return(nil)
		f.docRepo.On("Save", ctx, mock.AnythingOfType("*signing.Document")).Return(nil)
		f.usage.On("IncrementCreated", ctx, userID).Return(nil)
		f.credits.On("Deduct", ctx, userID, billing.CreditKindCreate, mock.AnythingOfType("uuid.UUID")).Return(shared.ErrInsufficientCredit)

		f.usage.On("DecrementCreated", ctx, userID).Return(nil)
		f.docRepo.On("HardDelete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)
		f.storage.On("DeleteObject", ctx, mock.AnythingOfType("string")).Return(nil)

		_, err := f.service.Create(ctx, userID, uploadInput())

		assert.ErrorIs(t, err, shared.ErrInsufficientCredit)
		f.usage.AssertCalled(t, "DecrementCreated", ctx, userID)
		f.docRepo.AssertCalled(t, "HardDelete", ctx, mock.AnythingOfType("uuid.UUID"))
		f.storage.AssertCalled(t, "DeleteObject", ctx, mock.AnythingOfType("string"))
	})

	t.Run("rejects disallowed content types", func(t *testing.T) {
		f := newDocumentFixture()
		input := uploadInput()
		input.ContentType = "image/svg+xml"

		_, err := f.service.Create(ctx, userID, input)

		assert.Error(t, err)
		f.entitlements.AssertNotCalled(t, "CanCreateDocument", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("published documents are refused", func(t *testing.T) {
		f := newDocumentFixture()
		doc := draftDocument(t, userID)
		require.NoError(t, doc.Publish(uuid.New()))
		f.docRepo.On("FindByIDForOwner", ctx, userID, doc.ID).Return(doc, nil)

		err := f.service.Delete(ctx, userID, doc.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.docRepo.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
		f.docRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("completed documents are only soft-deleted", func(t *testing.T) {
		f := newDocumentFixture()
		doc := draftDocument(t, userID)
		require.NoError(t, doc.Publish(uuid.New()))
		require.NoError(t, doc.MarkCompleted())
		f.docRepo.On("FindByIDForOwner", ctx, userID, doc.ID).Return(doc, nil)
		f.docRepo.On("Delete", ctx, doc.ID).Return(nil)

		err := f.service.Delete(ctx, userID, doc.ID)

		require.NoError(t, err)
		f.docRepo.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
		f.usage.AssertNotCalled(t, "DecrementCreated", mock.Anything, mock.Anything)
	})

	t.Run("credited draft refunds before removal", func(t *testing.T) {
		f := newDocumentFixture()
		doc := draftDocument(t, userID)
		f.docRepo.On("FindByIDForOwner", ctx, userID, doc.ID).Return(doc, nil)
		f.credits.On("WasDeductedFor", ctx, userID, billing.CreditKindCreate, doc.ID).Return(true, nil)
		f.credits.On("Refund", ctx, userID, billing.CreditKindCreate, doc.ID).Return(nil)
		f.areaRepo.On("DeleteByDocumentID", ctx, doc.ID).Return(nil)
		f.storage.On("DeleteObject", ctx, doc.FileKey).Return(nil)
		f.docRepo.On("HardDelete", ctx, doc.ID).Return(nil)
		f.usage.On("DecrementCreated", ctx, userID).Return(nil)

		err := f.service.Delete(ctx, userID, doc.ID)

		require.NoError(t, err)
		f.credits.AssertExpectations(t)
		f.usage.AssertExpectations(t)
	})

	t.Run("uncredited draft skips the refund", func(t *testing.T) {
		f := newDocumentFixture()
		doc := draftDocument(t, userID)
		f.docRepo.On("FindByIDForOwner", ctx, userID, doc.ID).Return(doc, nil)
		f.credits.On("WasDeductedFor", ctx, userID, billing.CreditKindCreate, doc.ID).Return(false, nil)
		f.areaRepo.On("DeleteByDocumentID", ctx, doc.ID).Return(nil)
		f.storage.On("DeleteObject", ctx, doc.FileKey).Return(nil)
		f.docRepo.On("HardDelete", ctx, doc.ID).Return(nil)
		f.usage.On("DecrementCreated", ctx, userID).Return(nil)

		err := f.service.Delete(ctx, userID, doc.ID)

		require.NoError(t, err)
		f.credits.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure does not block the delete", func(t *testing.T) {
		f := newDocumentFixture()
		doc := draftDocument(t, userID)
		f.docRepo.On("FindByIDForOwner", ctx, userID, doc.ID).Return(doc, nil)
		f.credits.On("WasDeductedFor", ctx, userID, billing.CreditKindCreate, doc.ID).Return(false, nil)
		f.areaRepo.On("DeleteByDocumentID", ctx, doc.ID).Return(nil)
		f.storage.On("DeleteObject", ctx, doc.FileKey).Return(assert.AnError)
		f.docRepo.On("HardDelete", ctx, doc.ID).Return(nil)
		f.usage.On("DecrementCreated", ctx, userID).Return(nil)

		err := f.service.Delete(ctx, userID, doc.ID)

		require.NoError(t, err)
	})
}

func TestDocumentService_UpdateAreas(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("replaces areas on a draft", func(t *testing.T) {
		f := newDocumentFixture()
		doc := draftDocument(t, userID)
		f.docRepo.On("FindByIDForOwner", ctx, userID, doc.ID).Return(doc, nil)
		f.areaRepo.On("ReplaceForDocument", ctx, doc.ID, mock.AnythingOfType("[]*signing.SignatureArea")).Return(nil)

		areas, err := f.service.UpdateAreas(ctx, userID, doc.ID, []AreaInput{
			{X: 10, Y: 10, Width: 20, Height: 10},
			{X: 10, Y: 40, Width: 20, Height: 10},
		})

		require.NoError(t, err)
		require.Len(t, areas, 2)
		assert.Equal(t, 0, areas[0].AreaIndex)
		assert.Equal(t, 1, areas[1].AreaIndex)
	})

	t.Run("rejects non-draft documents", func(t *testing.T) {
		f := newDocumentFixture()
		doc := draftDocument(t, userID)
		require.NoError(t, doc.Publish(uuid.New()))
		f.docRepo.On("FindByIDForOwner", ctx, userID, doc.ID).Return(doc, nil)

		_, err := f.service.UpdateAreas(ctx, userID, doc.ID, []AreaInput{{X: 10, Y: 10, Width: 20, Height: 10}})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("invalid geometry aborts before the store", func(t *testing.T) {
		f := newDocumentFixture()
		doc := draftDocument(t, userID)
		f.docRepo.On("FindByIDForOwner", ctx, userID, doc.ID).Return(doc, nil)

		_, err := f.service.UpdateAreas(ctx, userID, doc.ID, []AreaInput{{X: 95, Y: 10, Width: 20, Height: 10}})

		assert.Error(t, err)
		f.areaRepo.AssertNotCalled(t, "ReplaceForDocument", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentService_MarkCompleted(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("only the transitioning call propagates to the publication", func(t *testing.T) {
		f := newDocumentFixture()
		completer := new(MockPublicationCompleter)
		f.service.SetPublicationCompleter(completer)

		pubID := uuid.New()
		doc := draftDocument(t, userID)
		require.NoError(t, doc.Publish(pubID))
		require.NoError(t, doc.MarkCompleted())

		f.docRepo.On("TransitionStatus", ctx, doc.ID, signing.DocumentStatusPublished, signing.DocumentStatusCompleted).
			Return(true, nil).Once()
		f.docRepo.On("TransitionStatus", ctx, doc.ID, signing.DocumentStatusPublished, signing.DocumentStatusCompleted).
			Return(false, nil)
		f.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		completer.On("CheckAndComplete", ctx, pubID).Return(nil).Once()

		require.NoError(t, f.service.MarkCompleted(ctx, doc.ID))
		require.NoError(t, f.service.MarkCompleted(ctx, doc.ID))

		completer.AssertNumberOfCalls(t, "CheckAndComplete", 1)
	})

	t.Run("completion check failure is swallowed", func(t *testing.T) {
		f := newDocumentFixture()
		completer := new(MockPublicationCompleter)
		f.service.SetPublicationCompleter(completer)

		pubID := uuid.New()
		doc := draftDocument(t, userID)
		require.NoError(t, doc.Publish(pubID))

		f.docRepo.On("TransitionStatus", ctx, doc.ID, signing.DocumentStatusPublished, signing.DocumentStatusCompleted).Return(true, nil)
		f.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		completer.On("CheckAndComplete", ctx, pubID).Return(assert.AnError)

		assert.NoError(t, f.service.MarkCompleted(ctx, doc.ID))
	})
}

func TestDocumentService_SignArea(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	publishedDoc := func(t *testing.T) (*signing.Document, *signing.Publication) {
		t.Helper()
		pub, err := signing.NewPublication(userID, "Round 1", nil, nil)
		require.NoError(t, err)
		doc := draftDocument(t, userID)
		require.NoError(t, doc.Publish(pub.ID))
		return doc, pub
	}

	t.Run("signs a pending area", func(t *testing.T) {
		f := newDocumentFixture()
		doc, pub := publishedDoc(t)
		area, err := signing.NewSignatureArea(doc.ID, 0, 10, 10, 20, 10)
		require.NoError(t, err)

		f.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		f.pubRepo.On("FindByID", ctx, pub.ID).Return(pub, nil)
		f.areaRepo.On("FindByDocumentAndIndex", ctx, doc.ID, 0).Return(area, nil)
		f.areaRepo.On("Save", ctx, area).Return(nil)
		f.areaRepo.On("CountPendingForDocument", ctx, doc.ID).Return(int64(1), nil)

		signed, err := f.service.SignArea(ctx, doc.ID, 0, "data:image/png;base64,xyz")

		require.NoError(t, err)
		assert.True(t, signed.IsSigned())
		f.docRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("last signature completes the document", func(t *testing.T) {
		f := newDocumentFixture()
		doc, pub := publishedDoc(t)
		area, err := signing.NewSignatureArea(doc.ID, 0, 10, 10, 20, 10)
		require.NoError(t, err)

		f.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		f.pubRepo.On("FindByID", ctx, pub.ID).Return(pub, nil)
		f.areaRepo.On("FindByDocumentAndIndex", ctx, doc.ID, 0).Return(area, nil)
		f.areaRepo.On("Save", ctx, area).Return(nil)
		f.areaRepo.On("CountPendingForDocument", ctx, doc.ID).Return(int64(0), nil)
		f.docRepo.On("TransitionStatus", ctx, doc.ID, signing.DocumentStatusPublished, signing.DocumentStatusCompleted).Return(true, nil)

		_, err = f.service.SignArea(ctx, doc.ID, 0, "data:image/png;base64,xyz")

		require.NoError(t, err)
		f.docRepo.AssertCalled(t, "TransitionStatus", ctx, doc.ID, signing.DocumentStatusPublished, signing.DocumentStatusCompleted)
	})

	t.Run("expired publication refuses signatures", func(t *testing.T) {
		f := newDocumentFixture()
		doc, pub := publishedDoc(t)
		pub.Status = signing.PublicationStatusExpired

		f.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		f.pubRepo.On("FindByID", ctx, pub.ID).Return(pub, nil)

		_, err := f.service.SignArea(ctx, doc.ID, 0, "sig")

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.areaRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("draft document refuses signatures", func(t *testing.T) {
		f := newDocumentFixture()
		doc := draftDocument(t, userID)
		f.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

		_, err := f.service.SignArea(ctx, doc.ID, 0, "sig")

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}
