package handler

import (
	"time"

	appsigning "github.com/signly/backend/internal/application/signing"
	"github.com/signly/backend/internal/domain/signing"
)

// DocumentResponse is the owner's view of a document
type DocumentResponse struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	Alias         *string    `json:"alias,omitempty"`
	Filename      string     `json:"filename"`
	DisplayName   string     `json:"display_name"`
	PublicationID *string    `json:"publication_id,omitempty"`
	HasSignedFile bool       `json:"has_signed_file"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// ToDocumentResponse converts a domain document to its API shape
func ToDocumentResponse(d *signing.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:            d.ID.String(),
		Status:        d.Status.String(),
		Alias:         d.Alias,
		Filename:      d.Filename,
		DisplayName:   d.DisplayName(),
		HasSignedFile: d.SignedFileKey != nil,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		DeletedAt:     d.DeletedAt,
	}
	if d.PublicationID != nil {
		id := d.PublicationID.String()
		resp.PublicationID = &id
	}
	return resp
}

// AreaResponse describes one signature area. Raw signature data never
// leaves through list endpoints; clients only learn whether it exists.
type AreaResponse struct {
	AreaIndex int        `json:"area_index"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Status    string     `json:"status"`
	Signed    bool       `json:"signed"`
	SignedAt  *time.Time `json:"signed_at,omitempty"`
}

// ToAreaResponse converts a domain signature area to its API shape
func ToAreaResponse(a *signing.SignatureArea) AreaResponse {
	return AreaResponse{
		AreaIndex: a.AreaIndex,
		X:         a.X,
		Y:         a.Y,
		Width:     a.Width,
		Height:    a.Height,
		Status:    a.Status.String(),
		Signed:    a.IsSigned(),
		SignedAt:  a.SignedAt,
	}
}

// DocumentWithAreasResponse bundles a document with its areas
type DocumentWithAreasResponse struct {
	DocumentResponse
	Areas []AreaResponse `json:"areas"`
}

// ToDocumentWithAreasResponse converts the service bundle to its API shape
func ToDocumentWithAreasResponse(d appsigning.DocumentWithAreas) DocumentWithAreasResponse {
	areas := make([]AreaResponse, 0, len(d.Areas))
	for _, a := range d.Areas {
		areas = append(areas, ToAreaResponse(a))
	}
	return DocumentWithAreasResponse{
		DocumentResponse: ToDocumentResponse(d.Document),
		Areas:            areas,
	}
}

// PublicationResponse is the owner's view of a publication
type PublicationResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	ShortURL          string     `json:"short_url"`
	Status            string     `json:"status"`
	PasswordProtected bool       `json:"password_protected"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToPublicationResponse converts a domain publication to its API shape
func ToPublicationResponse(p *signing.Publication) PublicationResponse {
	return PublicationResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		ShortURL:          p.ShortURL,
		Status:            p.Status.String(),
		PasswordProtected: p.HasPassword(),
		ExpiresAt:         p.ExpiresAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// PublicationDetailResponse bundles a publication with its documents
type PublicationDetailResponse struct {
	PublicationResponse
	Documents []DocumentResponse `json:"documents"`
}

// ToPublicationDetailResponse converts the service bundle to its API shape
func ToPublicationDetailResponse(d *appsigning.PublicationDetail) PublicationDetailResponse {
	docs := make([]DocumentResponse, 0, len(d.Documents))
	for _, doc := range d.Documents {
		docs = append(docs, ToDocumentResponse(doc))
	}
	return PublicationDetailResponse{
		PublicationResponse: ToPublicationResponse(d.Publication),
		Documents:           docs,
	}
}

// PublicationAccessResponse is the public view behind a short URL
type PublicationAccessResponse struct {
	Name              string                      `json:"name"`
	Status            string                      `json:"status"`
	PasswordProtected bool                        `json:"password_protected"`
	ExpiresAt         *time.Time                  `json:"expires_at,omitempty"`
	Documents         []DocumentWithAreasResponse `json:"documents"`
}

// ToPublicationAccessResponse converts the service bundle to its public API
// shape
func ToPublicationAccessResponse(a *appsigning.PublicationAccess) PublicationAccessResponse {
	docs := make([]DocumentWithAreasResponse, 0, len(a.Documents))
	for _, d := range a.Documents {
		docs = append(docs, ToDocumentWithAreasResponse(d))
	}
	return PublicationAccessResponse{
		Name:              a.Publication.Name,
		Status:            a.Publication.Status.String(),
		PasswordProtected: a.Publication.HasPassword(),
		ExpiresAt:         a.Publication.ExpiresAt,
		Documents:         docs,
	}
}

// DownloadURLResponse carries a presigned download link
type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
