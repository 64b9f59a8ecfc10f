package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements billing.SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new subscription repository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByID retrieves a subscription by its ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOwner retrieves a subscription only if it belongs to the owner
func (r *GormSubscriptionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	err := r.db.WithContext(ctx).
		First(&model, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindEffectiveForOwner retrieves the user's most recent active, in-window
// subscription, used to resolve the effective plan. Filtering happens in SQL
// so a newer trial or cancelled row cannot shadow a paid subscription.
func (r *GormSubscriptionRepository) FindEffectiveForOwner(ctx context.Context, ownerID uuid.UUID, at time.Time) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ? AND (ends_at IS NULL OR ends_at > ?)",
			ownerID, billing.SubscriptionStatusActive.String(), at).
		Order("starts_at DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves subscriptions matching the filter
func (r *GormSubscriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Subscription, error) {
	var subModels []models.SubscriptionModel
	err := applyFilter(r.db.WithContext(ctx), filter).Find(&subModels).Error
	if err != nil {
		return nil, err
	}

	subs := make([]billing.Subscription, len(subModels))
	for i := range subModels {
		subs[i] = *subModels[i].ToDomain()
	}
	return subs, nil
}

// FindAllForOwner retrieves a user's subscriptions matching the filter
func (r *GormSubscriptionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]billing.Subscription, error) {
	var subModels []models.SubscriptionModel
	err := applyFilter(r.db.WithContext(ctx).Where("owner_id = ?", ownerID), filter).
		Find(&subModels).Error
	if err != nil {
		return nil, err
	}

	subs := make([]billing.Subscription, len(subModels))
	for i := range subModels {
		subs[i] = *subModels[i].ToDomain()
	}
	return subs, nil
}

// Count returns the number of subscriptions matching the filter
func (r *GormSubscriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := applyFilterConditions(r.db.WithContext(ctx).Model(&models.SubscriptionModel{}), filter).
		Count(&count).Error
	return count, err
}

// Save persists a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *billing.Subscription) error {
	var model models.SubscriptionModel
	model.FromDomain(sub)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a subscription
func (r *GormSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SubscriptionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSubscriptionRepository implements the interface
var _ billing.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
