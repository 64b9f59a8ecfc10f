package signing

import (
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/shared"
)

// DocumentStatus represents the status of a document
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPublished DocumentStatus = "published"
	DocumentStatusCompleted DocumentStatus = "completed"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusPublished, DocumentStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Publishing is reversible (a publication can be torn down), completion is
// terminal.
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case DocumentStatusDraft:
		return target == DocumentStatusPublished
	case DocumentStatusPublished:
		return target == DocumentStatusCompleted || target == DocumentStatusDraft
	case DocumentStatusCompleted:
		return false
	}
	return false
}

// IsActive reports whether the status counts against the active-document
// limit
func (s DocumentStatus) IsActive() bool {
	return s == DocumentStatusPublished || s == DocumentStatusCompleted
}

// Document is an uploaded page a user collects signatures on.
// Created in draft; published only as part of a publication; completed when
// every signature area is signed. Completed documents are soft-deleted with
// their status preserved, drafts are removed outright.
type Document struct {
	shared.OwnedAggregateRoot
	Status        DocumentStatus
	Alias         *string
	Filename      string
	FileKey       string
	SignedFileKey *string
	PublicationID *uuid.UUID
	IsDeleted     bool
	DeletedAt     *time.Time
}

// NewDocument creates a new draft document for an uploaded file
func NewDocument(ownerID uuid.UUID, filename, fileKey string, alias *string) (*Document, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if filename == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Filename cannot be empty")
	}
	if fileKey == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "File key cannot be empty")
	}
	if alias != nil && *alias == "" {
		alias = nil
	}

	return &Document{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Status:             DocumentStatusDraft,
		Alias:              alias,
		Filename:           filename,
		FileKey:            fileKey,
	}, nil
}

// DisplayName returns the alias if set, otherwise the original filename
func (d *Document) DisplayName() string {
	if d.Alias != nil && *d.Alias != "" {
		return *d.Alias
	}
	return d.Filename
}

// Rename sets the document alias; an empty alias clears it
func (d *Document) Rename(alias string) {
	if alias == "" {
		d.Alias = nil
	} else {
		d.Alias = &alias
	}
	d.UpdatedAt = time.Now()
}

// Publish links the document to a publication and marks it published
func (d *Document) Publish(publicationID uuid.UUID) error {
	if publicationID == uuid.Nil {
		return shared.NewDomainError("INVALID_PUBLICATION", "Publication ID cannot be empty")
	}
	if !d.Status.CanTransitionTo(DocumentStatusPublished) {
		return shared.NewDomainErrorWithCause("INVALID_STATUS_TRANSITION",
			"Only draft documents can be published", shared.ErrInvalidState)
	}
	d.Status = DocumentStatusPublished
	d.PublicationID = &publicationID
	d.UpdatedAt = time.Now()
	return nil
}

// Unpublish reverts a published document to draft and unlinks its
// publication. Used when an active publication is torn down.
func (d *Document) Unpublish() error {
	if !d.Status.CanTransitionTo(DocumentStatusDraft) {
		return shared.NewDomainErrorWithCause("INVALID_STATUS_TRANSITION",
			"Only published documents can revert to draft", shared.ErrInvalidState)
	}
	d.Status = DocumentStatusDraft
	d.PublicationID = nil
	d.SignedFileKey = nil
	d.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted marks the document completed. Idempotent: completing an
// already-completed document is a no-op.
func (d *Document) MarkCompleted() error {
	if d.Status == DocumentStatusCompleted {
		return nil
	}
	if !d.Status.CanTransitionTo(DocumentStatusCompleted) {
		return shared.NewDomainErrorWithCause("INVALID_STATUS_TRANSITION",
			"Only published documents can be completed", shared.ErrInvalidState)
	}
	d.Status = DocumentStatusCompleted
	d.UpdatedAt = time.Now()
	return nil
}

// AttachSignedFile records the key of the composited signed output
func (d *Document) AttachSignedFile(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_FILE", "Signed file key cannot be empty")
	}
	d.SignedFileKey = &key
	d.UpdatedAt = time.Now()
	return nil
}

// SoftDelete hides a completed document while preserving its status, so its
// historical quota and credit consumption stays on the books
func (d *Document) SoftDelete(now time.Time) error {
	if d.IsDeleted {
		return nil
	}
	d.IsDeleted = true
	d.DeletedAt = &now
	d.UpdatedAt = now
	return nil
}
