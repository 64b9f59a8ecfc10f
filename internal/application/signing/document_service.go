package signing

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/domain/signing"
	"go.uber.org/zap"
)

// PublicationCompleter lets the document lifecycle notify the publication
// lifecycle when a document completes, without a hard dependency in both
// directions
type PublicationCompleter interface {
	CheckAndComplete(ctx context.Context, publicationID uuid.UUID) error
}

// DocumentService drives the document lifecycle. Every status transition
// funnels through it so the usage counters move exactly once per transition,
// and storage/ledger side effects follow the documented compensation order.
type DocumentService struct {
	docRepo      signing.DocumentRepository
	areaRepo     signing.SignatureAreaRepository
	pubRepo      signing.PublicationRepository
	entitlements EntitlementChecker
	credits      CreditSpender
	usage        UsageRecorder
	storage      ObjectStorageService
	completer    PublicationCompleter
	logger       *zap.Logger
	now          func() time.Time
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	docRepo signing.DocumentRepository,
	areaRepo signing.SignatureAreaRepository,
	pubRepo signing.PublicationRepository,
	entitlements EntitlementChecker,
	credits CreditSpender,
	usage UsageRecorder,
	storage ObjectStorageService,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:      docRepo,
		areaRepo:     areaRepo,
		pubRepo:      pubRepo,
		entitlements: entitlements,
		credits:      credits,
		usage:        usage,
		storage:      storage,
		logger:       logger,
		now:          time.Now,
	}
}

// SetPublicationCompleter wires the publication lifecycle for completion
// propagation
func (s *DocumentService) SetPublicationCompleter(completer PublicationCompleter) {
	s.completer = completer
}

// Create uploads a file and creates a draft document. Order: entitlement
// check, store file, insert row, count the creation, then deduct a credit if
// the monthly quota was already spent. A failed deduction unwinds the earlier
// steps in reverse; unwind failures are logged, not returned.
func (s *DocumentService) Create(ctx context.Context, userID uuid.UUID, input CreateDocumentInput) (*signing.Document, error) {
	if len(input.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "Uploaded file is empty")
	}
	if !AllowedContentTypes[input.ContentType] {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE",
			fmt.Sprintf("Content type %s is not allowed", input.ContentType))
	}

	decision, err := s.entitlements.CanCreateDocument(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !decision.CanCreate {
		return nil, shared.NewDomainErrorWithCause("DOCUMENT_LIMIT_REACHED",
			"Monthly document limit reached and no create credits left", shared.ErrQuotaExceeded)
	}

	fileKey := fmt.Sprintf("documents/%s/%s%s", userID, uuid.NewString(), filepath.Ext(input.Filename))
	if err := s.storage.Upload(ctx, fileKey, input.Data, input.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store document file: %w", err)
	}

	var alias *string
	if input.Alias != "" {
		alias = &input.Alias
	}
	doc, err := signing.NewDocument(userID, input.Filename, fileKey, alias)
	if err != nil {
		s.deleteFileBestEffort(ctx, fileKey)
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		s.deleteFileBestEffort(ctx, fileKey)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	if err := s.usage.IncrementCreated(ctx, userID); err != nil {
		s.compensateCreate(ctx, doc, false)
		return nil, fmt.Errorf("failed to count document creation: %w", err)
	}

	if decision.UsingCredit {
		if err := s.credits.Deduct(ctx, userID, billing.CreditKindCreate, doc.ID); err != nil {
			s.compensateCreate(ctx, doc, true)
			return nil, err
		}
	}

	s.logger.Info("Document created",
		zap.String("document_id", doc.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Bool("using_credit", decision.UsingCredit))

	return doc, nil
}

// compensateCreate unwinds a partially created document in reverse order.
// Failures here leave the counters recoverable (they floor at zero) and are
// logged rather than surfaced.
func (s *DocumentService) compensateCreate(ctx context.Context, doc *signing.Document, decrementUsage bool) {
	if decrementUsage {
		if err := s.usage.DecrementCreated(ctx, doc.OwnerID); err != nil {
			s.logger.Warn("Compensation failed: usage decrement",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
		}
	}
	if err := s.docRepo.HardDelete(ctx, doc.ID); err != nil {
		s.logger.Warn("Compensation failed: document row delete",
			zap.String("document_id", doc.ID.String()), zap.Error(err))
	}
	s.deleteFileBestEffort(ctx, doc.FileKey)
}

func (s *DocumentService) deleteFileBestEffort(ctx context.Context, fileKey string) {
	if err := s.storage.DeleteObject(ctx, fileKey); err != nil {
		s.logger.Warn("Failed to delete stored file",
			zap.String("file_key", fileKey), zap.Error(err))
	}
}

// GetByID retrieves a document for its owner
func (s *DocumentService) GetByID(ctx context.Context, userID, documentID uuid.UUID) (*signing.Document, error) {
	return s.docRepo.FindByIDForOwner(ctx, userID, documentID)
}

// GetWithAreas retrieves a document and its signature areas for its owner
func (s *DocumentService) GetWithAreas(ctx context.Context, userID, documentID uuid.UUID) (*DocumentWithAreas, error) {
	doc, err := s.docRepo.FindByIDForOwner(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	areas, err := s.areaRepo.FindByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &DocumentWithAreas{Document: doc, Areas: areas}, nil
}

// List returns the owner's documents with the total count
func (s *DocumentService) List(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]signing.Document, int64, error) {
	docs, err := s.docRepo.FindAllForOwner(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	countFilter := filter
	countFilter.Filters = map[string]interface{}{"owner_id": userID}
	total, err := s.docRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Rename sets or clears the document alias
func (s *DocumentService) Rename(ctx context.Context, userID, documentID uuid.UUID, alias string) (*signing.Document, error) {
	doc, err := s.docRepo.FindByIDForOwner(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	doc.Rename(alias)
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return doc, nil
}

// UpdateAreas replaces all signature areas of a draft document atomically
func (s *DocumentService) UpdateAreas(ctx context.Context, userID, documentID uuid.UUID, inputs []AreaInput) ([]*signing.SignatureArea, error) {
	doc, err := s.docRepo.FindByIDForOwner(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != signing.DocumentStatusDraft {
		return nil, shared.NewDomainErrorWithCause("DOCUMENT_NOT_DRAFT",
			"Signature areas can only be edited on draft documents", shared.ErrInvalidState)
	}

	areas := make([]*signing.SignatureArea, 0, len(inputs))
	for i, input := range inputs {
		area, err := signing.NewSignatureArea(doc.ID, i, input.X, input.Y, input.Width, input.Height)
		if err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}

	if err := s.areaRepo.ReplaceForDocument(ctx, doc.ID, areas); err != nil {
		return nil, fmt.Errorf("failed to replace signature areas: %w", err)
	}
	return areas, nil
}

// Delete removes a document. Published documents are refused; completed
// documents are soft-deleted so their quota consumption stays on the books;
// drafts are fully removed, refunding a spent create credit and reverting
// the monthly creation count.
func (s *DocumentService) Delete(ctx context.Context, userID, documentID uuid.UUID) error {
	doc, err := s.docRepo.FindByIDForOwner(ctx, userID, documentID)
	if err != nil {
		return err
	}

	switch doc.Status {
	case signing.DocumentStatusPublished:
		return shared.NewDomainErrorWithCause("DOCUMENT_PUBLISHED",
			"Published documents cannot be deleted; delete the publication first", shared.ErrInvalidState)

	case signing.DocumentStatusCompleted:
		return s.docRepo.Delete(ctx, doc.ID)

	default:
		return s.deleteDraft(ctx, doc)
	}
}

func (s *DocumentService) deleteDraft(ctx context.Context, doc *signing.Document) error {
	credited, err := s.credits.WasDeductedFor(ctx, doc.OwnerID, billing.CreditKindCreate, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to check credit ledger: %w", err)
	}
	if credited {
		if err := s.credits.Refund(ctx, doc.OwnerID, billing.CreditKindCreate, doc.ID); err != nil {
			// The refund is conditional on an unrefunded deduction; a
			// concurrent delete may have won the race.
			if !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("failed to refund create credit: %w", err)
			}
		}
	}

	if err := s.areaRepo.DeleteByDocumentID(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to delete signature areas: %w", err)
	}

	s.deleteFileBestEffort(ctx, doc.FileKey)

	if err := s.docRepo.HardDelete(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.usage.DecrementCreated(ctx, doc.OwnerID); err != nil {
		s.logger.Warn("Failed to revert creation count after delete",
			zap.String("document_id", doc.ID.String()), zap.Error(err))
	}

	s.logger.Info("Draft document deleted",
		zap.String("document_id", doc.ID.String()),
		zap.Bool("credit_refunded", credited))

	return nil
}

// MarkCompleted transitions a published document to completed. Idempotent:
// only the call that performs the transition propagates completion to the
// publication. Completed documents keep counting against the active limit,
// so no usage mutation happens here.
func (s *DocumentService) MarkCompleted(ctx context.Context, documentID uuid.UUID) error {
	transitioned, err := s.docRepo.TransitionStatus(ctx, documentID,
		signing.DocumentStatusPublished, signing.DocumentStatusCompleted)
	if err != nil {
		return err
	}
	if !transitioned {
		return nil
	}

	s.logger.Info("Document completed", zap.String("document_id", documentID.String()))

	if s.completer == nil {
		return nil
	}
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil || doc.PublicationID == nil {
		return nil
	}
	if err := s.completer.CheckAndComplete(ctx, *doc.PublicationID); err != nil {
		s.logger.Warn("Failed to propagate completion to publication",
			zap.String("document_id", documentID.String()),
			zap.String("publication_id", doc.PublicationID.String()),
			zap.Error(err))
	}
	return nil
}

// SignArea records signature data on a pending area of a published document
// whose publication still accepts signatures. When the last pending area is
// signed the document completes.
func (s *DocumentService) SignArea(ctx context.Context, documentID uuid.UUID, areaIndex int, signatureData string) (*signing.SignatureArea, error) {
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != signing.DocumentStatusPublished || doc.PublicationID == nil {
		return nil, shared.NewDomainErrorWithCause("DOCUMENT_NOT_SIGNABLE",
			"Document is not open for signing", shared.ErrInvalidState)
	}

	pub, err := s.pubRepo.FindByID(ctx, *doc.PublicationID)
	if err != nil {
		return nil, err
	}
	if !pub.AcceptsSignatures(s.now()) {
		return nil, shared.NewDomainErrorWithCause("PUBLICATION_CLOSED",
			"Publication no longer accepts signatures", shared.ErrInvalidState)
	}

	area, err := s.areaRepo.FindByDocumentAndIndex(ctx, documentID, areaIndex)
	if err != nil {
		return nil, err
	}
	if err := area.Sign(signatureData, s.now()); err != nil {
		return nil, err
	}
	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, fmt.Errorf("failed to save signature: %w", err)
	}

	pending, err := s.areaRepo.CountPendingForDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending areas: %w", err)
	}
	if pending == 0 {
		if err := s.MarkCompleted(ctx, documentID); err != nil {
			return nil, err
		}
	}

	return area, nil
}

// StoreSignedFile persists the composited signed output for a document and
// records its key
func (s *DocumentService) StoreSignedFile(ctx context.Context, documentID uuid.UUID, data []byte, contentType string) error {
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("signed/%s/%s%s", doc.OwnerID, doc.ID, filepath.Ext(doc.Filename))
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		return fmt.Errorf("failed to store signed file: %w", err)
	}
	if err := doc.AttachSignedFile(key); err != nil {
		return err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// DownloadURL returns a presigned URL for the original or, when available,
// the signed file
func (s *DocumentService) DownloadURL(ctx context.Context, userID, documentID uuid.UUID, expiresIn time.Duration) (string, time.Time, error) {
	doc, err := s.docRepo.FindByIDForOwner(ctx, userID, documentID)
	if err != nil {
		return "", time.Time{}, err
	}
	key := doc.FileKey
	if doc.SignedFileKey != nil {
		key = *doc.SignedFileKey
	}
	return s.storage.GenerateDownloadURL(ctx, key, expiresIn)
}
