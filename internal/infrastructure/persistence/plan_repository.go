package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPlanRepository implements billing.PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new plan repository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID retrieves a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SubscriptionPlan, error) {
	var model models.SubscriptionPlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode retrieves a plan by its unique code
func (r *GormPlanRepository) FindByCode(ctx context.Context, code string) (*billing.SubscriptionPlan, error) {
	var model models.SubscriptionPlanModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDefaultPlan retrieves the lowest-rank active plan, the free-tier
// fallback for users without a subscription
func (r *GormPlanRepository) FindDefaultPlan(ctx context.Context) (*billing.SubscriptionPlan, error) {
	var model models.SubscriptionPlanModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("rank ASC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindVisiblePlans retrieves active, non-hidden plans ordered by rank
func (r *GormPlanRepository) FindVisiblePlans(ctx context.Context) ([]*billing.SubscriptionPlan, error) {
	var planModels []models.SubscriptionPlanModel
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_hidden = ?", true, false).
		Order("rank ASC").
		Find(&planModels).Error
	if err != nil {
		return nil, err
	}

	plans := make([]*billing.SubscriptionPlan, len(planModels))
	for i := range planModels {
		plans[i] = planModels[i].ToDomain()
	}
	return plans, nil
}

// FindAll retrieves plans matching the filter
func (r *GormPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.SubscriptionPlan, error) {
	var planModels []models.SubscriptionPlanModel
	err := applyFilter(r.db.WithContext(ctx), filter).Find(&planModels).Error
	if err != nil {
		return nil, err
	}

	plans := make([]billing.SubscriptionPlan, len(planModels))
	for i := range planModels {
		plans[i] = *planModels[i].ToDomain()
	}
	return plans, nil
}

// Count returns the number of plans matching the filter
func (r *GormPlanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := applyFilterConditions(r.db.WithContext(ctx).Model(&models.SubscriptionPlanModel{}), filter).
		Count(&count).Error
	return count, err
}

// Save persists a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *billing.SubscriptionPlan) error {
	var model models.SubscriptionPlanModel
	model.FromDomain(plan)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a plan
func (r *GormPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SubscriptionPlanModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPlanRepository implements the interface
var _ billing.PlanRepository = (*GormPlanRepository)(nil)
