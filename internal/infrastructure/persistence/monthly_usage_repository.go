package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMonthlyUsageRepository implements billing.MonthlyUsageRepository using
// GORM. Counter moves are single SQL statements; nothing here reads a value
// and writes it back.
type GormMonthlyUsageRepository struct {
	db *gorm.DB
}

// NewGormMonthlyUsageRepository creates a new monthly usage repository
func NewGormMonthlyUsageRepository(db *gorm.DB) *GormMonthlyUsageRepository {
	return &GormMonthlyUsageRepository{db: db}
}

// GetOrCreateForMonth returns the usage row for the month, inserting a
// zeroed row on first access. The insert ignores conflicts so concurrent
// first accesses both succeed.
func (r *GormMonthlyUsageRepository) GetOrCreateForMonth(ctx context.Context, userID uuid.UUID, month billing.YearMonth) (*billing.MonthlyUsage, error) {
	now := time.Now()
	model := models.MonthlyUsageModel{
		ID:        uuid.New(),
		UserID:    userID,
		Month:     month.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}},
			DoNothing: true,
		}).
		Create(&model).Error
	if err != nil {
		return nil, err
	}

	var found models.MonthlyUsageModel
	err = r.db.WithContext(ctx).
		First(&found, "user_id = ? AND month = ?", userID, month.String()).Error
	if err != nil {
		return nil, err
	}
	return found.ToDomain(), nil
}

// IncrementCreated adds one to the month's creation counter
func (r *GormMonthlyUsageRepository) IncrementCreated(ctx context.Context, userID uuid.UUID, month billing.YearMonth) error {
	return r.addToCounter(ctx, userID, month, "documents_created", 1)
}

// DecrementCreated subtracts one from the month's creation counter, flooring
// at zero
func (r *GormMonthlyUsageRepository) DecrementCreated(ctx context.Context, userID uuid.UUID, month billing.YearMonth) error {
	return r.subtractFromCounter(ctx, userID, month, "documents_created", 1)
}

// IncrementActive adds delta to the active-document counter
func (r *GormMonthlyUsageRepository) IncrementActive(ctx context.Context, userID uuid.UUID, month billing.YearMonth, delta int) error {
	return r.addToCounter(ctx, userID, month, "published_completed_count", delta)
}

// DecrementActive subtracts delta from the active-document counter, flooring
// at zero
func (r *GormMonthlyUsageRepository) DecrementActive(ctx context.Context, userID uuid.UUID, month billing.YearMonth, delta int) error {
	return r.subtractFromCounter(ctx, userID, month, "published_completed_count", delta)
}

func (r *GormMonthlyUsageRepository) addToCounter(ctx context.Context, userID uuid.UUID, month billing.YearMonth, column string, delta int) error {
	if delta <= 0 {
		return nil
	}
	if err := r.ensureRow(ctx, userID, month); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MonthlyUsageModel{}).
		Where("user_id = ? AND month = ?", userID, month.String()).
		Updates(map[string]interface{}{
			column:       gorm.Expr(column+" + ?", delta),
			"updated_at": time.Now(),
		}).Error
}

// subtractFromCounter decrements with a floor at zero in a single statement,
// so concurrent decrements can never drive the counter negative
func (r *GormMonthlyUsageRepository) subtractFromCounter(ctx context.Context, userID uuid.UUID, month billing.YearMonth, column string, delta int) error {
	if delta <= 0 {
		return nil
	}
	if err := r.ensureRow(ctx, userID, month); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MonthlyUsageModel{}).
		Where("user_id = ? AND month = ?", userID, month.String()).
		Updates(map[string]interface{}{
			column:       gorm.Expr("CASE WHEN "+column+" >= ? THEN "+column+" - ? ELSE 0 END", delta, delta),
			"updated_at": time.Now(),
		}).Error
}

func (r *GormMonthlyUsageRepository) ensureRow(ctx context.Context, userID uuid.UUID, month billing.YearMonth) error {
	now := time.Now()
	model := models.MonthlyUsageModel{
		ID:        uuid.New(),
		UserID:    userID,
		Month:     month.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}},
			DoNothing: true,
		}).
		Create(&model).Error
}

// Ensure GormMonthlyUsageRepository implements the interface
var _ billing.MonthlyUsageRepository = (*GormMonthlyUsageRepository)(nil)
