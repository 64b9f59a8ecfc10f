package signing

import (
	"time"

	"github.com/signly/backend/internal/domain/signing"
)

// CreateDocumentInput carries an uploaded file into the document lifecycle
type CreateDocumentInput struct {
	Filename    string
	ContentType string
	Data        []byte
	Alias       string
}

// AreaInput describes one signature area in page-relative percentages
type AreaInput struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// UpdatePublicationInput carries a partial publication update.
// Nil fields stay unchanged. Password is tri-state: nil keeps the current
// protection, empty string removes it, any other value re-hashes.
type UpdatePublicationInput struct {
	Name        *string
	Password    *string
	ExpiresAt   *time.Time
	ClearExpiry bool
}

// DocumentWithAreas bundles a document with its signature areas for the
// signing page
type DocumentWithAreas struct {
	Document *signing.Document
	Areas    []*signing.SignatureArea
}

// PublicationDetail is the owner's view of a publication
type PublicationDetail struct {
	Publication *signing.Publication
	Documents   []*signing.Document
}

// PublicationAccess is the public view served behind the short URL
type PublicationAccess struct {
	Publication *signing.Publication
	Documents   []DocumentWithAreas
}
