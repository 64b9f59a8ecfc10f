package signing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/domain/signing"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PublicationService drives the publication lifecycle: creating a publication
// publishes its documents in bulk, tearing one down reverts them, and the
// public short-URL read path applies lazy expiration and completion.
type PublicationService struct {
	pubRepo      signing.PublicationRepository
	docRepo      signing.DocumentRepository
	areaRepo     signing.SignatureAreaRepository
	entitlements EntitlementChecker
	credits      CreditSpender
	usage        UsageRecorder
	cache        ShortURLCache
	logger       *zap.Logger
	now          func() time.Time
}

// NewPublicationService creates a new PublicationService
func NewPublicationService(
	pubRepo signing.PublicationRepository,
	docRepo signing.DocumentRepository,
	areaRepo signing.SignatureAreaRepository,
	entitlements EntitlementChecker,
	credits CreditSpender,
	usage UsageRecorder,
	logger *zap.Logger,
) *PublicationService {
	return &PublicationService{
		pubRepo:      pubRepo,
		docRepo:      docRepo,
		areaRepo:     areaRepo,
		entitlements: entitlements,
		credits:      credits,
		usage:        usage,
		logger:       logger,
		now:          time.Now,
	}
}

// SetCache wires the optional short-URL lookup cache
func (s *PublicationService) SetCache(cache ShortURLCache) {
	s.cache = cache
}

var _ PublicationCompleter = (*PublicationService)(nil)

// Create publishes the given draft documents behind a new short URL.
// Validation happens before any write; after the publication and its
// document links are committed, publish credits for slots beyond the free
// monthly allotment are deducted one by one. A mid-loop deduction failure is
// logged and does not unwind the publication.
func (s *PublicationService) Create(ctx context.Context, userID uuid.UUID, name, password string, expiresAt *time.Time, documentIDs []uuid.UUID) (*PublicationDetail, error) {
	docs, err := s.docRepo.FindByIDsForOwner(ctx, userID, documentIDs)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.Status != signing.DocumentStatusDraft {
			return nil, shared.NewDomainErrorWithCause("DOCUMENT_NOT_DRAFT",
				fmt.Sprintf("Document %s is already published", doc.ID), shared.ErrInvalidState)
		}
	}

	snapshot, err := s.entitlements.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	decision := snapshot.CanCreatePublication(len(docs))
	if !decision.CanCreate {
		return nil, shared.NewDomainErrorWithCause("ACTIVE_LIMIT_REACHED", decision.Reason, shared.ErrQuotaExceeded)
	}

	var passwordHash *string
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashStr := string(hashed)
		passwordHash = &hashStr
	}

	pub, err := signing.NewPublication(userID, name, passwordHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.pubRepo.Save(ctx, pub); err != nil {
		return nil, fmt.Errorf("failed to save publication: %w", err)
	}

	if err := s.docRepo.LinkToPublication(ctx, pub.ID, documentIDs); err != nil {
		if delErr := s.pubRepo.HardDelete(ctx, pub.ID); delErr != nil {
			s.logger.Warn("Compensation failed: publication delete",
				zap.String("publication_id", pub.ID.String()), zap.Error(delErr))
		}
		return nil, err
	}

	if err := s.usage.IncrementActive(ctx, userID, len(docs)); err != nil {
		s.logger.Error("Failed to count published documents",
			zap.String("publication_id", pub.ID.String()), zap.Error(err))
	}

	s.deductPublishCredits(ctx, userID, snapshot, docs)

	for _, doc := range docs {
		doc.Status = signing.DocumentStatusPublished
		id := pub.ID
		doc.PublicationID = &id
	}

	s.logger.Info("Publication created",
		zap.String("publication_id", pub.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("documents", len(docs)))

	return &PublicationDetail{Publication: pub, Documents: docs}, nil
}

// deductPublishCredits spends one publish credit per document beyond the
// free monthly allotment. The documents are live by the time this runs; a
// failed deduction is logged and the loop stops, leaving the publication
// standing.
func (s *PublicationService) deductPublishCredits(ctx context.Context, userID uuid.UUID, snapshot billing.EntitlementSnapshot, docs []*signing.Document) {
	needed := snapshot.PublishCreditsNeeded(len(docs))
	if needed == 0 {
		return
	}
	// the last `needed` documents are the ones past the free slots
	credited := docs[len(docs)-needed:]
	for _, doc := range credited {
		if err := s.credits.Deduct(ctx, userID, billing.CreditKindPublish, doc.ID); err != nil {
			s.logger.Warn("Publish credit deduction failed, publication stands",
				zap.String("user_id", userID.String()),
				zap.String("document_id", doc.ID.String()),
				zap.Error(err))
			return
		}
	}
}

// GetByID retrieves a publication and its documents for the owner
func (s *PublicationService) GetByID(ctx context.Context, userID, publicationID uuid.UUID) (*PublicationDetail, error) {
	pub, err := s.pubRepo.FindByIDForOwner(ctx, userID, publicationID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docRepo.FindByPublicationID(ctx, publicationID)
	if err != nil {
		return nil, err
	}
	return &PublicationDetail{Publication: pub, Documents: docs}, nil
}

// List returns the owner's publications with the total count
func (s *PublicationService) List(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]signing.Publication, int64, error) {
	pubs, err := s.pubRepo.FindAllForOwner(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	countFilter := filter
	countFilter.Filters = map[string]interface{}{"owner_id": userID}
	total, err := s.pubRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}
	return pubs, total, nil
}

// Update edits a publication's name, password, or expiry. Completed
// publications are frozen. A successful update of an expired publication
// reactivates it.
func (s *PublicationService) Update(ctx context.Context, userID, publicationID uuid.UUID, input UpdatePublicationInput) (*signing.Publication, error) {
	pub, err := s.pubRepo.FindByIDForOwner(ctx, userID, publicationID)
	if err != nil {
		return nil, err
	}
	if pub.Status == signing.PublicationStatusCompleted {
		return nil, shared.NewDomainErrorWithCause("PUBLICATION_COMPLETED",
			"Completed publications cannot be edited", shared.ErrInvalidState)
	}

	if input.Name != nil {
		if err := pub.Rename(*input.Name); err != nil {
			return nil, err
		}
	}

	if input.Password != nil {
		if *input.Password == "" {
			pub.SetPasswordHash(nil)
		} else {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			hashStr := string(hashed)
			pub.SetPasswordHash(&hashStr)
		}
	}

	if input.ClearExpiry {
		pub.SetExpiry(nil)
	} else if input.ExpiresAt != nil {
		if !input.ExpiresAt.After(s.now()) {
			return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry must be in the future")
		}
		pub.SetExpiry(input.ExpiresAt)
	}

	if pub.Status == signing.PublicationStatusExpired && !pub.IsExpiredAt(s.now()) {
		if err := pub.Reactivate(); err != nil {
			return nil, err
		}
	}

	if err := s.pubRepo.Save(ctx, pub); err != nil {
		return nil, fmt.Errorf("failed to save publication: %w", err)
	}
	return pub, nil
}

// ResolveByShortURL serves the public signing page. The cache only maps
// short URL to publication ID; the effective status is always computed
// fresh and persisted with a conditional update, so concurrent reads cannot
// double-transition.
func (s *PublicationService) ResolveByShortURL(ctx context.Context, shortURL string) (*PublicationAccess, error) {
	pub, err := s.loadByShortURL(ctx, shortURL)
	if err != nil {
		return nil, err
	}

	docs, err := s.docRepo.FindByPublicationID(ctx, pub.ID)
	if err != nil {
		return nil, err
	}

	allCompleted := len(docs) > 0
	for _, doc := range docs {
		if doc.Status != signing.DocumentStatusCompleted {
			allCompleted = false
			break
		}
	}

	effective := pub.EffectiveStatusAt(s.now(), allCompleted)
	if effective != pub.Status {
		if _, err := s.pubRepo.TransitionStatus(ctx, pub.ID, pub.Status, effective); err != nil {
			return nil, err
		}
		pub.Status = effective
	}

	access := &PublicationAccess{Publication: pub, Documents: make([]DocumentWithAreas, 0, len(docs))}
	for _, doc := range docs {
		areas, err := s.areaRepo.FindByDocumentID(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		access.Documents = append(access.Documents, DocumentWithAreas{Document: doc, Areas: areas})
	}
	return access, nil
}

func (s *PublicationService) loadByShortURL(ctx context.Context, shortURL string) (*signing.Publication, error) {
	if s.cache != nil {
		if id, err := s.cache.GetPublicationID(ctx, shortURL); err == nil && id != uuid.Nil {
			pub, err := s.pubRepo.FindByID(ctx, id)
			if err == nil {
				return pub, nil
			}
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			// stale cache entry, fall through to the store
		}
	}

	pub, err := s.pubRepo.FindByShortURL(ctx, shortURL)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetPublicationID(ctx, shortURL, pub.ID); err != nil {
			s.logger.Warn("Failed to cache short URL", zap.String("short_url", shortURL), zap.Error(err))
		}
	}
	return pub, nil
}

// VerifyPassword checks a public visitor's password for a protected link.
// Unprotected publications accept any password.
func (s *PublicationService) VerifyPassword(ctx context.Context, shortURL, password string) (bool, error) {
	pub, err := s.loadByShortURL(ctx, shortURL)
	if err != nil {
		return false, err
	}
	if !pub.HasPassword() {
		return true, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(*pub.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CheckAndComplete flips an active publication to completed once every one
// of its documents has completed. The conditional update makes concurrent
// calls fire at most once.
func (s *PublicationService) CheckAndComplete(ctx context.Context, publicationID uuid.UUID) error {
	docs, err := s.docRepo.FindByPublicationID(ctx, publicationID)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	for _, doc := range docs {
		if doc.Status != signing.DocumentStatusCompleted {
			return nil
		}
	}

	transitioned, err := s.pubRepo.TransitionStatus(ctx, publicationID,
		signing.PublicationStatusActive, signing.PublicationStatusCompleted)
	if err != nil {
		return err
	}
	if transitioned {
		s.logger.Info("Publication completed", zap.String("publication_id", publicationID.String()))
	}
	return nil
}

// Delete tears down a publication. Completed publications and their
// documents are soft-deleted, preserving history. Active or expired ones are
// refused while any signature exists; otherwise their documents revert to
// draft, the active count drops, and the row is removed.
func (s *PublicationService) Delete(ctx context.Context, userID, publicationID uuid.UUID) error {
	pub, err := s.pubRepo.FindByIDForOwner(ctx, userID, publicationID)
	if err != nil {
		return err
	}

	if pub.Status == signing.PublicationStatusCompleted {
		if err := s.docRepo.SoftDeleteByPublicationID(ctx, pub.ID); err != nil {
			return fmt.Errorf("failed to delete publication documents: %w", err)
		}
		if err := s.pubRepo.Delete(ctx, pub.ID); err != nil {
			return err
		}
		s.invalidateCache(ctx, pub.ShortURL)
		return nil
	}

	docs, err := s.docRepo.FindByPublicationID(ctx, pub.ID)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	signed, err := s.areaRepo.AnySignedForDocuments(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check for signatures: %w", err)
	}
	if signed {
		return shared.NewDomainErrorWithCause("SIGNATURES_PRESENT",
			"Publication has collected signatures and cannot be deleted", shared.ErrInvalidState)
	}

	if err := s.docRepo.UnlinkFromPublication(ctx, pub.ID); err != nil {
		return fmt.Errorf("failed to revert documents to draft: %w", err)
	}
	if err := s.usage.DecrementActive(ctx, userID, len(docs)); err != nil {
		s.logger.Warn("Failed to revert active count after delete",
			zap.String("publication_id", pub.ID.String()), zap.Error(err))
	}
	if err := s.pubRepo.HardDelete(ctx, pub.ID); err != nil {
		return err
	}
	s.invalidateCache(ctx, pub.ShortURL)

	s.logger.Info("Publication deleted",
		zap.String("publication_id", pub.ID.String()),
		zap.Int("documents_reverted", len(docs)))

	return nil
}

func (s *PublicationService) invalidateCache(ctx context.Context, shortURL string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, shortURL); err != nil {
		s.logger.Warn("Failed to invalidate short URL cache",
			zap.String("short_url", shortURL), zap.Error(err))
	}
}
