package signing

import (
	"context"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/shared"
)

// DocumentRepository provides access to documents. List operations exclude
// soft-deleted rows unless noted.
type DocumentRepository interface {
	shared.OwnedRepository[Document]

	// FindByIDsForOwner loads the given documents, failing with
	// shared.ErrNotFound if any is missing, deleted, or owned by someone else
	FindByIDsForOwner(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*Document, error)

	// FindByPublicationID returns all documents linked to a publication
	FindByPublicationID(ctx context.Context, publicationID uuid.UUID) ([]*Document, error)

	// LinkToPublication flips the given draft documents to published and sets
	// their publication in one statement. Returns shared.ErrInvalidState if
	// any document is no longer draft.
	LinkToPublication(ctx context.Context, publicationID uuid.UUID, documentIDs []uuid.UUID) error

	// UnlinkFromPublication reverts a publication's documents to draft and
	// clears the link
	UnlinkFromPublication(ctx context.Context, publicationID uuid.UUID) error

	// TransitionStatus updates the document status only when it currently has
	// the expected status. Reports whether this call performed the
	// transition, so the caller mutates usage counters exactly once.
	TransitionStatus(ctx context.Context, documentID uuid.UUID, from, to DocumentStatus) (bool, error)

	// SoftDeleteByPublicationID soft-deletes all documents of a publication
	SoftDeleteByPublicationID(ctx context.Context, publicationID uuid.UUID) error

	// HardDelete removes a document row permanently
	HardDelete(ctx context.Context, documentID uuid.UUID) error
}

// SignatureAreaRepository provides access to signature areas
type SignatureAreaRepository interface {
	FindByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*SignatureArea, error)
	FindByDocumentAndIndex(ctx context.Context, documentID uuid.UUID, areaIndex int) (*SignatureArea, error)

	// ReplaceForDocument swaps all areas of a document atomically: every old
	// row removed and every new row inserted, or neither
	ReplaceForDocument(ctx context.Context, documentID uuid.UUID, areas []*SignatureArea) error

	// Save persists signature data on an existing area
	Save(ctx context.Context, area *SignatureArea) error

	// CountPendingForDocument returns how many areas still await a signature
	CountPendingForDocument(ctx context.Context, documentID uuid.UUID) (int64, error)

	// AnySignedForDocuments reports whether any area of the given documents
	// holds signature data
	AnySignedForDocuments(ctx context.Context, documentIDs []uuid.UUID) (bool, error)

	// DeleteByDocumentID removes all areas of a document
	DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error
}

// PublicationRepository provides access to publications
type PublicationRepository interface {
	shared.OwnedRepository[Publication]

	// FindByShortURL loads a non-deleted publication by its public key
	FindByShortURL(ctx context.Context, shortURL string) (*Publication, error)

	// TransitionStatus updates the publication status only when it currently
	// has the expected status. Reports whether this call performed the
	// transition; concurrent lazy checks therefore cannot double-transition.
	TransitionStatus(ctx context.Context, publicationID uuid.UUID, from, to PublicationStatus) (bool, error)

	// HardDelete removes a publication row permanently
	HardDelete(ctx context.Context, publicationID uuid.UUID) error
}
