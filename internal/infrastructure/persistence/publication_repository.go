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

// GormPublicationRepository implements signing.PublicationRepository using GORM
type GormPublicationRepository struct {
	db *gorm.DB
}

// NewGormPublicationRepository creates a new publication repository
func NewGormPublicationRepository(db *gorm.DB) *GormPublicationRepository {
	return &GormPublicationRepository{db: db}
}

func (r *GormPublicationRepository) visible(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("is_deleted = ?", false)
}

// FindByID retrieves a non-deleted publication by its ID
func (r *GormPublicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*signing.Publication, error) {
	var model models.PublicationModel
	if err := r.visible(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOwner retrieves a publication only if it belongs to the owner
func (r *GormPublicationRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*signing.Publication, error) {
	var model models.PublicationModel
	err := r.visible(ctx).First(&model, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByShortURL retrieves a non-deleted publication by its public key
func (r *GormPublicationRepository) FindByShortURL(ctx context.Context, shortURL string) (*signing.Publication, error) {
	var model models.PublicationModel
	err := r.visible(ctx).First(&model, "short_url = ?", shortURL).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves publications matching the filter
func (r *GormPublicationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]signing.Publication, error) {
	var pubModels []models.PublicationModel
	err := applyFilterWithSortFields(r.visible(ctx), filter, PublicationSortFields).
		Find(&pubModels).Error
	if err != nil {
		return nil, err
	}

	pubs := make([]signing.Publication, len(pubModels))
	for i := range pubModels {
		pubs[i] = *pubModels[i].ToDomain()
	}
	return pubs, nil
}

// FindAllForOwner retrieves a user's publications matching the filter
func (r *GormPublicationRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]signing.Publication, error) {
	var pubModels []models.PublicationModel
	err := applyFilterWithSortFields(r.visible(ctx).Where("owner_id = ?", ownerID), filter, PublicationSortFields).
		Find(&pubModels).Error
	if err != nil {
		return nil, err
	}

	pubs := make([]signing.Publication, len(pubModels))
	for i := range pubModels {
		pubs[i] = *pubModels[i].ToDomain()
	}
	return pubs, nil
}

// Count returns the number of non-deleted publications matching the filter
func (r *GormPublicationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := applyFilterConditions(r.visible(ctx).Model(&models.PublicationModel{}), filter).
		Count(&count).Error
	return count, err
}

// Save persists a publication
func (r *GormPublicationRepository) Save(ctx context.Context, pub *signing.Publication) error {
	var model models.PublicationModel
	model.FromDomain(pub)
	return r.db.WithContext(ctx).Save(&model).Error
}

// TransitionStatus updates the status only when the publication currently
// holds the expected one. Concurrent completion or expiration checks race on
// this statement and exactly one wins.
func (r *GormPublicationRepository) TransitionStatus(ctx context.Context, publicationID uuid.UUID, from, to signing.PublicationStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PublicationModel{}).
		Where("id = ? AND status = ? AND is_deleted = ?", publicationID, from.String(), false).
		Updates(map[string]interface{}{
			"status":     to.String(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete soft-deletes a publication by ID
func (r *GormPublicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.PublicationModel{}).
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

// HardDelete removes a publication row permanently. Used when tearing down
// an active publication whose documents revert to draft.
func (r *GormPublicationRepository) HardDelete(ctx context.Context, publicationID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PublicationModel{}, "id = ?", publicationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPublicationRepository implements the interface
var _ signing.PublicationRepository = (*GormPublicationRepository)(nil)
