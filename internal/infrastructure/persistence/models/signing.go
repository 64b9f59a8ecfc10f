package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/signing"
)

// DocumentModel is the persistence model for the Document entity.
// Soft deletion is an explicit flag rather than gorm.DeletedAt because the
// status must survive deletion of completed documents.
type DocumentModel struct {
	OwnedAggregateModel
	Status        string     `gorm:"type:varchar(20);not null;index"`
	Alias         *string    `gorm:"type:varchar(255)"`
	Filename      string     `gorm:"type:varchar(255);not null"`
	FileKey       string     `gorm:"type:varchar(512);not null"`
	SignedFileKey *string    `gorm:"type:varchar(512)"`
	PublicationID *uuid.UUID `gorm:"type:uuid;index"`
	IsDeleted     bool       `gorm:"not null;default:false;index"`
	DeletedAt     *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document
func (m *DocumentModel) ToDomain() *signing.Document {
	return &signing.Document{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Status:             signing.DocumentStatus(m.Status),
		Alias:              m.Alias,
		Filename:           m.Filename,
		FileKey:            m.FileKey,
		SignedFileKey:      m.SignedFileKey,
		PublicationID:      m.PublicationID,
		IsDeleted:          m.IsDeleted,
		DeletedAt:          m.DeletedAt,
	}
}

// FromDomain populates the persistence model from a domain Document
func (m *DocumentModel) FromDomain(d *signing.Document) {
	m.FromDomainOwnedAggregateRoot(d.OwnedAggregateRoot)
	m.Status = d.Status.String()
	m.Alias = d.Alias
	m.Filename = d.Filename
	m.FileKey = d.FileKey
	m.SignedFileKey = d.SignedFileKey
	m.PublicationID = d.PublicationID
	m.IsDeleted = d.IsDeleted
	m.DeletedAt = d.DeletedAt
}

// SignatureAreaModel is the persistence model for the SignatureArea entity.
type SignatureAreaModel struct {
	BaseModel
	DocumentID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_area_document_index,priority:1"`
	AreaIndex     int        `gorm:"not null;uniqueIndex:idx_area_document_index,priority:2"`
	X             float64    `gorm:"not null"`
	Y             float64    `gorm:"not null"`
	Width         float64    `gorm:"not null"`
	Height        float64    `gorm:"not null"`
	Status        string     `gorm:"type:varchar(20);not null"`
	SignatureData *string    `gorm:"type:text"`
	SignedAt      *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (SignatureAreaModel) TableName() string {
	return "signature_areas"
}

// ToDomain converts the persistence model to a domain SignatureArea
func (m *SignatureAreaModel) ToDomain() *signing.SignatureArea {
	return &signing.SignatureArea{
		BaseEntity:    m.BaseModel.ToDomain(),
		DocumentID:    m.DocumentID,
		AreaIndex:     m.AreaIndex,
		X:             m.X,
		Y:             m.Y,
		Width:         m.Width,
		Height:        m.Height,
		Status:        signing.AreaStatus(m.Status),
		SignatureData: m.SignatureData,
		SignedAt:      m.SignedAt,
	}
}

// FromDomain populates the persistence model from a domain SignatureArea
func (m *SignatureAreaModel) FromDomain(a *signing.SignatureArea) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.DocumentID = a.DocumentID
	m.AreaIndex = a.AreaIndex
	m.X = a.X
	m.Y = a.Y
	m.Width = a.Width
	m.Height = a.Height
	m.Status = a.Status.String()
	m.SignatureData = a.SignatureData
	m.SignedAt = a.SignedAt
}

// PublicationModel is the persistence model for the Publication entity.
type PublicationModel struct {
	OwnedAggregateModel
	Name         string     `gorm:"type:varchar(255);not null"`
	ShortURL     string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	PasswordHash *string    `gorm:"type:varchar(255)"`
	ExpiresAt    *time.Time `gorm:""`
	Status       string     `gorm:"type:varchar(20);not null;index"`
	IsDeleted    bool       `gorm:"not null;default:false;index"`
	DeletedAt    *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (PublicationModel) TableName() string {
	return "publications"
}

// ToDomain converts the persistence model to a domain Publication
func (m *PublicationModel) ToDomain() *signing.Publication {
	return &signing.Publication{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		ShortURL:           m.ShortURL,
		PasswordHash:       m.PasswordHash,
		ExpiresAt:          m.ExpiresAt,
		Status:             signing.PublicationStatus(m.Status),
		IsDeleted:          m.IsDeleted,
		DeletedAt:          m.DeletedAt,
	}
}

// FromDomain populates the persistence model from a domain Publication
func (m *PublicationModel) FromDomain(p *signing.Publication) {
	m.FromDomainOwnedAggregateRoot(p.OwnedAggregateRoot)
	m.Name = p.Name
	m.ShortURL = p.ShortURL
	m.PasswordHash = p.PasswordHash
	m.ExpiresAt = p.ExpiresAt
	m.Status = p.Status.String()
	m.IsDeleted = p.IsDeleted
	m.DeletedAt = p.DeletedAt
}
