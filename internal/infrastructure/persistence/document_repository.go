package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/domain/signing"
	"github.com/signly/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentRepository implements signing.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new document repository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) visible(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("is_deleted = ?", false)
}

// FindByID retrieves a non-deleted document by its ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*signing.Document, error) {
	var model models.DocumentModel
	if err := r.visible(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOwner retrieves a document only if it belongs to the owner
func (r *GormDocumentRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*signing.Document, error) {
	var model models.DocumentModel
	err := r.visible(ctx).First(&model, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForOwner loads the given documents, failing when any is missing,
// deleted, or owned by someone else. Publication creation relies on the
// all-or-nothing read.
func (r *GormDocumentRepository) FindByIDsForOwner(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*signing.Document, error) {
	if len(ids) == 0 {
		return nil, shared.ErrInvalidInput
	}

	var docModels []models.DocumentModel
	err := r.visible(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Find(&docModels).Error
	if err != nil {
		return nil, err
	}
	if len(docModels) != len(ids) {
		return nil, shared.ErrNotFound
	}

	docs := make([]*signing.Document, len(docModels))
	for i := range docModels {
		docs[i] = docModels[i].ToDomain()
	}
	return docs, nil
}

// FindByPublicationID retrieves all non-deleted documents of a publication
func (r *GormDocumentRepository) FindByPublicationID(ctx context.Context, publicationID uuid.UUID) ([]*signing.Document, error) {
	var docModels []models.DocumentModel
	err := r.visible(ctx).
		Where("publication_id = ?", publicationID).
		Order("created_at ASC").
		Find(&docModels).Error
	if err != nil {
		return nil, err
	}

	docs := make([]*signing.Document, len(docModels))
	for i := range docModels {
		docs[i] = docModels[i].ToDomain()
	}
	return docs, nil
}

// FindAll retrieves documents matching the filter
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]signing.Document, error) {
	var docModels []models.DocumentModel
	err := applyFilterWithSortFields(r.visible(ctx), filter, DocumentSortFields).
		Find(&docModels).Error
	if err != nil {
		return nil, err
	}

	docs := make([]signing.Document, len(docModels))
	for i := range docModels {
		docs[i] = *docModels[i].ToDomain()
	}
	return docs, nil
}

// FindAllForOwner retrieves a user's documents matching the filter
func (r *GormDocumentRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]signing.Document, error) {
	var docModels []models.DocumentModel
	err := applyFilterWithSortFields(r.visible(ctx).Where("owner_id = ?", ownerID), filter, DocumentSortFields).
		Find(&docModels).Error
	if err != nil {
		return nil, err
	}

	docs := make([]signing.Document, len(docModels))
	for i := range docModels {
		docs[i] = *docModels[i].ToDomain()
	}
	return docs, nil
}

// Count returns the number of non-deleted documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := applyFilterConditions(r.visible(ctx).Model(&models.DocumentModel{}), filter).
		Count(&count).Error
	return count, err
}

// CountActiveForOwner returns how many of the user's documents currently sit
// in published or completed status
func (r *GormDocumentRepository) CountActiveForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.visible(ctx).
		Model(&models.DocumentModel{}).
		Where("owner_id = ? AND status IN ?", ownerID,
			[]string{signing.DocumentStatusPublished.String(), signing.DocumentStatusCompleted.String()}).
		Count(&count).Error
	return count, err
}

// Save persists a document
func (r *GormDocumentRepository) Save(ctx context.Context, doc *signing.Document) error {
	var model models.DocumentModel
	model.FromDomain(doc)
	return r.db.WithContext(ctx).Save(&model).Error
}

// LinkToPublication flips the given draft documents to published and links
// them to the publication in one statement. If any document is no longer
// draft the whole link is rolled back.
func (r *GormDocumentRepository) LinkToPublication(ctx context.Context, publicationID uuid.UUID, documentIDs []uuid.UUID) error {
	if len(documentIDs) == 0 {
		return shared.ErrInvalidInput
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.DocumentModel{}).
			Where("id IN ? AND status = ? AND is_deleted = ?",
				documentIDs, signing.DocumentStatusDraft.String(), false).
			Updates(map[string]interface{}{
				"status":         signing.DocumentStatusPublished.String(),
				"publication_id": publicationID,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(documentIDs)) {
			return shared.ErrInvalidState
		}
		return nil
	})
}

// UnlinkFromPublication reverts a publication's documents to draft and
// clears the link
func (r *GormDocumentRepository) UnlinkFromPublication(ctx context.Context, publicationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("publication_id = ?", publicationID).
		Updates(map[string]interface{}{
			"status":          signing.DocumentStatusDraft.String(),
			"publication_id":  nil,
			"signed_file_key": nil,
			"updated_at":      time.Now(),
		}).Error
}

// TransitionStatus updates the status only when the document currently holds
// the expected one, and reports whether this call made the change
func (r *GormDocumentRepository) TransitionStatus(ctx context.Context, documentID uuid.UUID, from, to signing.DocumentStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("id = ? AND status = ? AND is_deleted = ?", documentID, from.String(), false).
		Updates(map[string]interface{}{
			"status":     to.String(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SoftDeleteByPublicationID soft-deletes all documents of a publication,
// statuses untouched
func (r *GormDocumentRepository) SoftDeleteByPublicationID(ctx context.Context, publicationID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("publication_id = ? AND is_deleted = ?", publicationID, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		}).Error
}

// Delete soft-deletes a document by ID
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HardDelete removes a document row permanently. Used only for drafts,
// whose quota consumption is rolled back by the caller.
func (r *GormDocumentRepository) HardDelete(ctx context.Context, documentID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DocumentModel{}, "id = ?", documentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormDocumentRepository implements the interface
var _ signing.DocumentRepository = (*GormDocumentRepository)(nil)
