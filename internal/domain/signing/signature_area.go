package signing

import (
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/shared"
)

// AreaStatus represents the status of a signature area
type AreaStatus string

const (
	AreaStatusPending AreaStatus = "pending"
	AreaStatusSigned  AreaStatus = "signed"
)

// IsValid checks if the status is a valid AreaStatus
func (s AreaStatus) IsValid() bool {
	return s == AreaStatusPending || s == AreaStatusSigned
}

// String returns the string representation of AreaStatus
func (s AreaStatus) String() string {
	return string(s)
}

// SignatureArea is a rectangle on a document page awaiting a signature.
// Coordinates and dimensions are percentages of the page (0-100), so areas
// stay valid at any render size. AreaIndex is a stable ordinal within the
// document, assigned by the caller.
type SignatureArea struct {
	shared.BaseEntity
	DocumentID    uuid.UUID
	AreaIndex     int
	X             float64
	Y             float64
	Width         float64
	Height        float64
	Status        AreaStatus
	SignatureData *string
	SignedAt      *time.Time
}

// NewSignatureArea creates a pending signature area on a document
func NewSignatureArea(documentID uuid.UUID, areaIndex int, x, y, width, height float64) (*SignatureArea, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	if areaIndex < 0 {
		return nil, shared.NewDomainError("INVALID_AREA_INDEX", "Area index cannot be negative")
	}
	if x < 0 || x > 100 || y < 0 || y > 100 {
		return nil, shared.NewDomainError("INVALID_AREA_POSITION", "Area position must be within 0-100 percent")
	}
	if width <= 0 || height <= 0 {
		return nil, shared.NewDomainError("INVALID_AREA_SIZE", "Area size must be positive")
	}
	if x+width > 100 || y+height > 100 {
		return nil, shared.NewDomainError("INVALID_AREA_SIZE", "Area must fit within the page")
	}

	return &SignatureArea{
		BaseEntity: shared.NewBaseEntity(),
		DocumentID: documentID,
		AreaIndex:  areaIndex,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		Status:     AreaStatusPending,
	}, nil
}

// IsSigned reports whether the area holds a signature
func (a *SignatureArea) IsSigned() bool {
	return a.Status == AreaStatusSigned
}

// Sign fills the area with signature data. A signed area cannot be signed
// again.
func (a *SignatureArea) Sign(data string, now time.Time) error {
	if data == "" {
		return shared.NewDomainError("INVALID_SIGNATURE", "Signature data cannot be empty")
	}
	if a.IsSigned() {
		return shared.NewDomainErrorWithCause("AREA_ALREADY_SIGNED",
			"This area has already been signed", shared.ErrInvalidState)
	}
	a.Status = AreaStatusSigned
	a.SignatureData = &data
	a.SignedAt = &now
	a.UpdatedAt = now
	return nil
}
