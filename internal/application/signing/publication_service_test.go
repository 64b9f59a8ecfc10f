package signing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/domain/signing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type publicationFixture struct {
	service      *PublicationService
	pubRepo      *MockPublicationRepository
	docRepo      *MockDocumentRepository
	areaRepo     *MockSignatureAreaRepository
	entitlements *MockEntitlementChecker
	credits      *MockCreditSpender
	usage        *MockUsageRecorder
}

func newPublicationFixture() *publicationFixture {
	f := &publicationFixture{
		pubRepo:      new(MockPublicationRepository),
		docRepo:      new(MockDocumentRepository),
		areaRepo:     new(MockSignatureAreaRepository),
		entitlements: new(MockEntitlementChecker),
		credits:      new(MockCreditSpender),
		usage:        new(MockUsageRecorder),
	}
	f.service = NewPublicationService(f.pubRepo, f.docRepo, f.areaRepo,
		f.entitlements, f.credits, f.usage, zap.NewNop())
	return f
}

func draftDocs(t *testing.T, ownerID uuid.UUID, n int) ([]*signing.Document, []uuid.UUID) {
	t.Helper()
	docs := make([]*signing.Document, 0, n)
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		doc, err := signing.NewDocument(ownerID, "page.png", "documents/x/y.png", nil)
		require.NoError(t, err)
		docs = append(docs, doc)
		ids = append(ids, doc.ID)
	}
	return docs, ids
}

func activePublication(t *testing.T, ownerID uuid.UUID) *signing.Publication {
	t.Helper()
	pub, err := signing.NewPublication(ownerID, "Q3 contracts", nil, nil)
	require.NoError(t, err)
	return pub
}

func TestPublicationService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	snapshotWith := func(activeLimit, active, publishCredits int) billing.EntitlementSnapshot {
		return billing.EntitlementSnapshot{
			MonthlyDocumentLimit: 10,
			ActiveDocumentLimit:  activeLimit,
			ActiveDocuments:      active,
			PublishCredits:       publishCredits,
		}
	}

	t.Run("publishes drafts within the active limit without credits", func(t *testing.T) {
		f := newPublicationFixture()
		docs, ids := draftDocs(t, userID, 2)

		f.docRepo.On("FindByIDsForOwner", ctx, userID, ids).Return(docs, nil)
		f.entitlements.On("Snapshot", ctx, userID).Return(snapshotWith(5, 0, 0), nil)
		f.pubRepo.On("Save", ctx, mock.AnythingOfType("*signing.Publication")).Return(nil)
		f.docRepo.On("LinkToPublication", ctx, mock.AnythingOfType("uuid.UUID"), ids).Return(nil)
		f.usage.On("IncrementActive", ctx, userID, 2).Return(nil)

		detail, err := f.service.Create(ctx, userID, "Q3 contracts", "", nil, ids)

		require.NoError(t, err)
		assert.Equal(t, signing.PublicationStatusActive, detail.Publication.Status)
		assert.NotEmpty(t, detail.Publication.ShortURL)
		for _, doc := range detail.Documents {
			assert.Equal(t, signing.DocumentStatusPublished, doc.Status)
		}
		f.credits.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deducts one publish credit per document past the free slots", func(t *testing.T) {
		f := newPublicationFixture()
		docs, ids := draftDocs(t, userID, 3)

		f.docRepo.On("FindByIDsForOwner", ctx, userID, ids).Return(docs, nil)
		// one free slot left, two credits cover the rest
		f.entitlements.On("Snapshot", ctx, userID).Return(snapshotWith(3, 2, 2), nil)
		f.pubRepo.On("Save", ctx, mock.AnythingOfType("*signing.Publication")).Return(nil)
		f.docRepo.On("LinkToPublication", ctx, mock.AnythingOfType("uuid.UUID"), ids).Return(nil)
		f.usage.On("IncrementActive", ctx, userID, 3).Return(nil)
		f.credits.On("Deduct", ctx, userID, billing.CreditKindPublish, mock.AnythingOfType("uuid.UUID")).Return(nil)

		_, err := f.service.Create(ctx, userID, "Q3 contracts", "", nil, ids)

		require.NoError(t, err)
		f.credits.AssertNumberOfCalls(t, "Deduct", 2)
	})

	t.Run("over-committed month eats into credits", func(t *testing.T) {
		f := newPublicationFixture()
		docs, ids := draftDocs(t, userID, 2)

		f.docRepo.On("FindByIDsForOwner", ctx, userID, ids).Return(docs, nil)
		// limit 3 with 4 already active: remaining is -1, credits must cover all of it
		f.entitlements.On("Snapshot", ctx, userID).Return(snapshotWith(3, 4, 3), nil)
		f.pubRepo.On("Save", ctx, mock.AnythingOfType("*signing.Publication")).Return(nil)
		f.docRepo.On("LinkToPublication", ctx, mock.AnythingOfType("uuid.UUID"), ids).Return(nil)
		f.usage.On("IncrementActive", ctx, userID, 2).Return(nil)
		f.credits.On("Deduct", ctx, userID, billing.CreditKindPublish, mock.AnythingOfType("uuid.UUID")).Return(nil)

		_, err := f.service.Create(ctx, userID, "Q3 contracts", "", nil, ids)

		require.NoError(t, err)
		f.credits.AssertNumberOfCalls(t, "Deduct", 2)
	})

	t.Run("insufficient slots and credits abort before any write", func(t *testing.T) {
		f := newPublicationFixture()
		docs, ids := draftDocs(t, userID, 2)

		f.docRepo.On("FindByIDsForOwner", ctx, userID, ids).Return(docs, nil)
		f.entitlements.On("Snapshot", ctx, userID).Return(snapshotWith(3, 2, 0), nil)

		_, err := f.service.Create(ctx, userID, "Q3 contracts", "", nil, ids)

		assert.ErrorIs(t, err, shared.ErrQuotaExceeded)
		f.pubRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("non-draft document aborts before any write", func(t *testing.T) {
		f := newPublicationFixture()
		docs, ids := draftDocs(t, userID, 2)
		require.NoError(t, docs[1].Publish(uuid.New()))

		f.docRepo.On("FindByIDsForOwner", ctx, userID, ids).Return(docs, nil)

		_, err := f.service.Create(ctx, userID, "Q3 contracts", "", nil, ids)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.entitlements.AssertNotCalled(t, "Snapshot", mock.Anything, mock.Anything)
	})

	t.Run("link failure removes the orphaned publication", func(t *testing.T) {
		f := newPublicationFixture()
		docs, ids := draftDocs(t, userID, 1)

		f.docRepo.On("FindByIDsForOwner", ctx, userID, ids).Return(docs, nil)
		f.entitlements.On("Snapshot", ctx, userID).Return(snapshotWith(5, 0, 0), nil)
		f.pubRepo.On("Save", ctx, mock.AnythingOfType("*signing.Publication")).Return(nil)
		f.docRepo.On("LinkToPublication", ctx, mock.AnythingOfType("uuid.UUID"), ids).Return(shared.ErrInvalidState)
		f.pubRepo.On("HardDelete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

		_, err := f.service.Create(ctx, userID, "Q3 contracts", "", nil, ids)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.pubRepo.AssertCalled(t, "HardDelete", ctx, mock.AnythingOfType("uuid.UUID"))
		f.usage.AssertNotCalled(t, "IncrementActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mid-loop deduction failure leaves the publication standing", func(t *testing.T) {
		f := newPublicationFixture()
		docs, ids := draftDocs(t, userID, 2)

		f.docRepo.On("FindByIDsForOwner", ctx, userID, ids).Return(docs, nil)
		f.entitlements.On("Snapshot", ctx, userID).Return(snapshotWith(3, 3, 2), nil)
		f.pubRepo.On("Save", ctx, mock.AnythingOfType("*signing.Publication")).Return(nil)
		f.docRepo.On("LinkToPublication", ctx, mock.AnythingOfType("uuid.UUID"), ids).Return(nil)
		f.usage.On("IncrementActive", ctx, userID, 2).Return(nil)
		f.credits.On("Deduct", ctx, userID, billing.CreditKindPublish, mock.AnythingOfType("uuid.UUID")).
			Return(nil).Once()
		f.credits.On("Deduct", ctx, userID, billing.CreditKindPublish, mock.AnythingOfType("uuid.UUID")).
			Return(shared.ErrInsufficientCredit)

		detail, err := f.service.Create(ctx, userID, "Q3 contracts", "", nil, ids)

		require.NoError(t, err)
		assert.NotNil(t, detail)
		f.pubRepo.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
	})

	t.Run("password is stored as a bcrypt hash", func(t *testing.T) {
		f := newPublicationFixture()
		docs, ids := draftDocs(t, userID, 1)

		var saved *signing.Publication
		f.docRepo.On("FindByIDsForOwner", ctx, userID, ids).Return(docs, nil)
		f.entitlements.On("Snapshot", ctx, userID).Return(snapshotWith(5, 0, 0), nil)
		f.pubRepo.On("Save", ctx, mock.AnythingOfType("*signing.Publication")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*signing.Publication) }).
			Return(nil)
		f.docRepo.On("LinkToPublication", ctx, mock.AnythingOfType("uuid.UUID"), ids).Return(nil)
		f.usage.On("IncrementActive", ctx, userID, 1).Return(nil)

		_, err := f.service.Create(ctx, userID, "Protected", "hunter2", nil, ids)

		require.NoError(t, err)
		require.NotNil(t, saved.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*saved.PasswordHash), []byte("hunter2")))
	})
}

func TestPublicationService_CheckAndComplete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	completedDocs := func(t *testing.T, pubID uuid.UUID, n int) []*signing.Document {
		t.Helper()
		docs, _ := draftDocs(t, userID, n)
		for _, doc := range docs {
			require.NoError(t, doc.Publish(pubID))
			require.NoError(t, doc.MarkCompleted())
		}
		return docs
	}

	t.Run("flips exactly once when all documents completed", func(t *testing.T) {
		f := newPublicationFixture()
		pubID := uuid.New()
		f.docRepo.On("FindByPublicationID", ctx, pubID).Return(completedDocs(t, pubID, 2), nil)
		f.pubRepo.On("TransitionStatus", ctx, pubID, signing.PublicationStatusActive, signing.PublicationStatusCompleted).
			Return(true, nil).Once()
		f.pubRepo.On("TransitionStatus", ctx, pubID, signing.PublicationStatusActive, signing.PublicationStatusCompleted).
			Return(false, nil)

		require.NoError(t, f.service.CheckAndComplete(ctx, pubID))
		require.NoError(t, f.service.CheckAndComplete(ctx, pubID))

		f.pubRepo.AssertNumberOfCalls(t, "TransitionStatus", 2)
	})

	t.Run("a pending document blocks completion", func(t *testing.T) {
		f := newPublicationFixture()
		pubID := uuid.New()
		docs := completedDocs(t, pubID, 1)
		pending, _ := draftDocs(t, userID, 1)
		require.NoError(t, pending[0].Publish(pubID))
		docs = append(docs, pending[0])

		f.docRepo.On("FindByPublicationID", ctx, pubID).Return(docs, nil)

		require.NoError(t, f.service.CheckAndComplete(ctx, pubID))

		f.pubRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPublicationService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("signed publication is refused", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		docs, _ := draftDocs(t, userID, 2)

		f.pubRepo.On("FindByIDForOwner", ctx, userID, pub.ID).Return(pub, nil)
		f.docRepo.On("FindByPublicationID", ctx, pub.ID).Return(docs, nil)
		f.areaRepo.On("AnySignedForDocuments", ctx, mock.AnythingOfType("[]uuid.UUID")).Return(true, nil)

		err := f.service.Delete(ctx, userID, pub.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.docRepo.AssertNotCalled(t, "UnlinkFromPublication", mock.Anything, mock.Anything)
		f.pubRepo.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
	})

	t.Run("unsigned publication reverts documents and drops the count", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		docs, _ := draftDocs(t, userID, 2)

		f.pubRepo.On("FindByIDForOwner", ctx, userID, pub.ID).Return(pub, nil)
		f.docRepo.On("FindByPublicationID", ctx, pub.ID).Return(docs, nil)
		f.areaRepo.On("AnySignedForDocuments", ctx, mock.AnythingOfType("[]uuid.UUID")).Return(false, nil)
		f.docRepo.On("UnlinkFromPublication", ctx, pub.ID).Return(nil)
		f.usage.On("DecrementActive", ctx, userID, 2).Return(nil)
		f.pubRepo.On("HardDelete", ctx, pub.ID).Return(nil)

		err := f.service.Delete(ctx, userID, pub.ID)

		require.NoError(t, err)
		f.docRepo.AssertExpectations(t)
		f.usage.AssertExpectations(t)
	})

	t.Run("completed publication soft-deletes itself and its documents", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		pub.Status = signing.PublicationStatusCompleted

		f.pubRepo.On("FindByIDForOwner", ctx, userID, pub.ID).Return(pub, nil)
		f.docRepo.On("SoftDeleteByPublicationID", ctx, pub.ID).Return(nil)
		f.pubRepo.On("Delete", ctx, pub.ID).Return(nil)

		err := f.service.Delete(ctx, userID, pub.ID)

		require.NoError(t, err)
		f.pubRepo.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
		f.usage.AssertNotCalled(t, "DecrementActive", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPublicationService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("completed publications are frozen", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		pub.Status = signing.PublicationStatusCompleted
		f.pubRepo.On("FindByIDForOwner", ctx, userID, pub.ID).Return(pub, nil)

		name := "New name"
		_, err := f.service.Update(ctx, userID, pub.ID, UpdatePublicationInput{Name: &name})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("nil password keeps the existing protection", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		hash := "$2a$10$existinghash"
		pub.PasswordHash = &hash
		f.pubRepo.On("FindByIDForOwner", ctx, userID, pub.ID).Return(pub, nil)
		f.pubRepo.On("Save", ctx, pub).Return(nil)

		name := "Renamed"
		updated, err := f.service.Update(ctx, userID, pub.ID, UpdatePublicationInput{Name: &name})

		require.NoError(t, err)
		require.NotNil(t, updated.PasswordHash)
		assert.Equal(t, hash, *updated.PasswordHash)
	})

	t.Run("empty password clears the protection", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		hash := "$2a$10$existinghash"
		pub.PasswordHash = &hash
		f.pubRepo.On("FindByIDForOwner", ctx, userID, pub.ID).Return(pub, nil)
		f.pubRepo.On("Save", ctx, pub).Return(nil)

		empty := ""
		updated, err := f.service.Update(ctx, userID, pub.ID, UpdatePublicationInput{Password: &empty})

		require.NoError(t, err)
		assert.Nil(t, updated.PasswordHash)
	})

	t.Run("new password is re-hashed", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		f.pubRepo.On("FindByIDForOwner", ctx, userID, pub.ID).Return(pub, nil)
		f.pubRepo.On("Save", ctx, pub).Return(nil)

		password := "s3cret"
		updated, err := f.service.Update(ctx, userID, pub.ID, UpdatePublicationInput{Password: &password})

		require.NoError(t, err)
		require.NotNil(t, updated.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*updated.PasswordHash), []byte(password)))
	})

	t.Run("updating an expired publication reactivates it", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		pub.Status = signing.PublicationStatusExpired
		f.pubRepo.On("FindByIDForOwner", ctx, userID, pub.ID).Return(pub, nil)
		f.pubRepo.On("Save", ctx, pub).Return(nil)

		future := time.Now().Add(48 * time.Hour)
		updated, err := f.service.Update(ctx, userID, pub.ID, UpdatePublicationInput{ExpiresAt: &future})

		require.NoError(t, err)
		assert.Equal(t, signing.PublicationStatusActive, updated.Status)
	})

	t.Run("a past expiry is rejected", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		f.pubRepo.On("FindByIDForOwner", ctx, userID, pub.ID).Return(pub, nil)

		past := time.Now().Add(-time.Hour)
		_, err := f.service.Update(ctx, userID, pub.ID, UpdatePublicationInput{ExpiresAt: &past})

		assert.Error(t, err)
		f.pubRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPublicationService_ResolveByShortURL(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns the publication with documents and areas", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		docs, _ := draftDocs(t, userID, 1)
		require.NoError(t, docs[0].Publish(pub.ID))
		area, err := signing.NewSignatureArea(docs[0].ID, 0, 10, 10, 20, 10)
		require.NoError(t, err)

		f.pubRepo.On("FindByShortURL", ctx, pub.ShortURL).Return(pub, nil)
		f.docRepo.On("FindByPublicationID", ctx, pub.ID).Return(docs, nil)
		f.areaRepo.On("FindByDocumentID", ctx, docs[0].ID).Return([]*signing.SignatureArea{area}, nil)

		access, err := f.service.ResolveByShortURL(ctx, pub.ShortURL)

		require.NoError(t, err)
		assert.Equal(t, signing.PublicationStatusActive, access.Publication.Status)
		require.Len(t, access.Documents, 1)
		assert.Len(t, access.Documents[0].Areas, 1)
	})

	t.Run("lazily expires a publication past its deadline", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		past := time.Now().Add(-time.Hour)
		pub.ExpiresAt = &past
		docs, _ := draftDocs(t, userID, 1)
		require.NoError(t, docs[0].Publish(pub.ID))

		f.pubRepo.On("FindByShortURL", ctx, pub.ShortURL).Return(pub, nil)
		f.docRepo.On("FindByPublicationID", ctx, pub.ID).Return(docs, nil)
		f.pubRepo.On("TransitionStatus", ctx, pub.ID, signing.PublicationStatusActive, signing.PublicationStatusExpired).Return(true, nil)
		f.areaRepo.On("FindByDocumentID", ctx, docs[0].ID).Return([]*signing.SignatureArea{}, nil)

		access, err := f.service.ResolveByShortURL(ctx, pub.ShortURL)

		require.NoError(t, err)
		assert.Equal(t, signing.PublicationStatusExpired, access.Publication.Status)
	})

	t.Run("expiry wins over completion", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		past := time.Now().Add(-time.Hour)
		pub.ExpiresAt = &past
		docs, _ := draftDocs(t, userID, 1)
		require.NoError(t, docs[0].Publish(pub.ID))
		require.NoError(t, docs[0].MarkCompleted())

		f.pubRepo.On("FindByShortURL", ctx, pub.ShortURL).Return(pub, nil)
		f.docRepo.On("FindByPublicationID", ctx, pub.ID).Return(docs, nil)
		f.pubRepo.On("TransitionStatus", ctx, pub.ID, signing.PublicationStatusActive, signing.PublicationStatusExpired).Return(true, nil)
		f.areaRepo.On("FindByDocumentID", ctx, docs[0].ID).Return([]*signing.SignatureArea{}, nil)

		access, err := f.service.ResolveByShortURL(ctx, pub.ShortURL)

		require.NoError(t, err)
		assert.Equal(t, signing.PublicationStatusExpired, access.Publication.Status)
	})

	t.Run("cache hit skips the short URL lookup", func(t *testing.T) {
		f := newPublicationFixture()
		cache := new(MockShortURLCache)
		f.service.SetCache(cache)

		pub := activePublication(t, userID)
		cache.On("GetPublicationID", ctx, pub.ShortURL).Return(pub.ID, nil)
		f.pubRepo.On("FindByID", ctx, pub.ID).Return(pub, nil)
		f.docRepo.On("FindByPublicationID", ctx, pub.ID).Return([]*signing.Document{}, nil)

		_, err := f.service.ResolveByShortURL(ctx, pub.ShortURL)

		require.NoError(t, err)
		f.pubRepo.AssertNotCalled(t, "FindByShortURL", mock.Anything, mock.Anything)
	})

	t.Run("cache miss populates the cache", func(t *testing.T) {
		f := newPublicationFixture()
		cache := new(MockShortURLCache)
		f.service.SetCache(cache)

		pub := activePublication(t, userID)
		cache.On("GetPublicationID", ctx, pub.ShortURL).Return(uuid.Nil, assert.AnError)
		f.pubRepo.On("FindByShortURL", ctx, pub.ShortURL).Return(pub, nil)
		cache.On("SetPublicationID", ctx, pub.ShortURL, pub.ID).Return(nil)
		f.docRepo.On("FindByPublicationID", ctx, pub.ID).Return([]*signing.Document{}, nil)

		_, err := f.service.ResolveByShortURL(ctx, pub.ShortURL)

		require.NoError(t, err)
		cache.AssertCalled(t, "SetPublicationID", ctx, pub.ShortURL, pub.ID)
	})
}

func TestPublicationService_VerifyPassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("matches the stored hash", func(t *testing.T) {
		f := newPublicationFixture()
		hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
		require.NoError(t, err)
		hashStr := string(hashed)
		pub := activePublication(t, userID)
		pub.PasswordHash = &hashStr
		f.pubRepo.On("FindByShortURL", ctx, pub.ShortURL).Return(pub, nil)

		ok, err := f.service.VerifyPassword(ctx, pub.ShortURL, "hunter2")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.service.VerifyPassword(ctx, pub.ShortURL, "wrong")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unprotected publications accept anyone", func(t *testing.T) {
		f := newPublicationFixture()
		pub := activePublication(t, userID)
		f.pubRepo.On("FindByShortURL", ctx, pub.ShortURL).Return(pub, nil)

		ok, err := f.service.VerifyPassword(ctx, pub.ShortURL, "")

		require.NoError(t, err)
		assert.True(t, ok)
	})
}
