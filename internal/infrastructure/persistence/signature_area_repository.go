package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/domain/signing"
	"github.com/signly/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSignatureAreaRepository implements signing.SignatureAreaRepository using GORM
type GormSignatureAreaRepository struct {
	db *gorm.DB
}

// NewGormSignatureAreaRepository creates a new signature area repository
func NewGormSignatureAreaRepository(db *gorm.DB) *GormSignatureAreaRepository {
	return &GormSignatureAreaRepository{db: db}
}

// FindByDocumentID retrieves all areas of a document ordered by area index
func (r *GormSignatureAreaRepository) FindByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*signing.SignatureArea, error) {
	var areaModels []models.SignatureAreaModel
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("area_index ASC").
		Find(&areaModels).Error
	if err != nil {
		return nil, err
	}

	areas := make([]*signing.SignatureArea, len(areaModels))
	for i := range areaModels {
		areas[i] = areaModels[i].ToDomain()
	}
	return areas, nil
}

// FindByDocumentAndIndex retrieves one area by its stable ordinal
func (r *GormSignatureAreaRepository) FindByDocumentAndIndex(ctx context.Context, documentID uuid.UUID, areaIndex int) (*signing.SignatureArea, error) {
	var model models.SignatureAreaModel
	err := r.db.WithContext(ctx).
		First(&model, "document_id = ? AND area_index = ?", documentID, areaIndex).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ReplaceForDocument swaps all areas of a document atomically: every old row
// removed and every new row inserted, or neither
func (r *GormSignatureAreaRepository) ReplaceForDocument(ctx context.Context, documentID uuid.UUID, areas []*signing.SignatureArea) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SignatureAreaModel{}, "document_id = ?", documentID).Error; err != nil {
			return err
		}
		for _, area := range areas {
			var model models.SignatureAreaModel
			model.FromDomain(area)
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Save persists signature data on an existing area
func (r *GormSignatureAreaRepository) Save(ctx context.Context, area *signing.SignatureArea) error {
	var model models.SignatureAreaModel
	model.FromDomain(area)
	return r.db.WithContext(ctx).Save(&model).Error
}

// CountPendingForDocument returns how many areas still await a signature
func (r *GormSignatureAreaRepository) CountPendingForDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SignatureAreaModel{}).
		Where("document_id = ? AND status = ?", documentID, signing.AreaStatusPending.String()).
		Count(&count).Error
	return count, err
}

// AnySignedForDocuments reports whether any area of the given documents
// holds signature data
func (r *GormSignatureAreaRepository) AnySignedForDocuments(ctx context.Context, documentIDs []uuid.UUID) (bool, error) {
	if len(documentIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SignatureAreaModel{}).
		Where("document_id IN ? AND signature_data IS NOT NULL", documentIDs).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteByDocumentID removes all areas of a document
func (r *GormSignatureAreaRepository) DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.SignatureAreaModel{}, "document_id = ?", documentID).Error
}

// Ensure GormSignatureAreaRepository implements the interface
var _ signing.SignatureAreaRepository = (*GormSignatureAreaRepository)(nil)
