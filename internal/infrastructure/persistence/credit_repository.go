package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/domain/shared"
	"github.com/signly/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCreditRepository implements billing.CreditRepository using GORM.
// Every balance mutation is a single conditional UPDATE paired with its
// ledger row inside one database transaction, so the ledger always
// reconciles with the balance and counters can never go negative, no matter
// how many requests race.
type GormCreditRepository struct {
	db *gorm.DB
}

// NewGormCreditRepository creates a new credit repository
func NewGormCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

func creditColumn(kind billing.CreditKind) string {
	if kind == billing.CreditKindCreate {
		return "create_credits"
	}
	return "publish_credits"
}

// GetBalance returns the user's balance; a missing row reads as zero
func (r *GormCreditRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*billing.CreditBalance, error) {
	var model models.CreditBalanceModel
	err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return billing.ZeroBalance(userID), nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Deduct spends one credit of the given kind against a document. The
// conditional update only matches when the balance is positive; zero rows
// affected means insufficient credit.
func (r *GormCreditRepository) Deduct(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error {
	entry, err := billing.NewDeductionTransaction(userID, kind, documentID)
	if err != nil {
		return err
	}

	column := creditColumn(kind)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CreditBalanceModel{}).
			Where("user_id = ? AND "+column+" > 0", userID).
			Updates(map[string]interface{}{
				column:       gorm.Expr(column+" - 1"),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrInsufficientCredit
		}

		var model models.CreditTransactionModel
		model.FromDomain(entry)
		return tx.Create(&model).Error
	})
}

// Refund returns one credit of the given kind for a document. Only valid
// when an unrefunded deduction for that document and kind exists.
func (r *GormCreditRepository) Refund(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error {
	entry, err := billing.NewRefundTransaction(userID, kind, documentID)
	if err != nil {
		return err
	}

	column := creditColumn(kind)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The balance upsert runs first: its row lock serializes concurrent
		// refunds for the user, so the ledger guard below always sees a
		// competing refund that committed before this one got the lock.
		// When the guard fails the transaction rolls the upsert back.
		if err := upsertBalanceDelta(tx, userID, map[string]int{column: 1}); err != nil {
			return err
		}

		deducted, err := wasDeductedFor(tx, userID, kind, documentID)
		if err != nil {
			return err
		}
		if !deducted {
			return shared.ErrNotFound
		}

		var model models.CreditTransactionModel
		model.FromDomain(entry)
		return tx.Create(&model).Error
	})
}

// Grant applies a purchase transaction: upserts the balance and appends the
// ledger row. A previously recorded external reference yields
// shared.ErrDuplicateGrant with no balance change.
func (r *GormCreditRepository) Grant(ctx context.Context, entry *billing.CreditTransaction) error {
	if entry.Type != billing.TransactionTypePurchase || entry.ExternalRef == nil {
		return shared.ErrInvalidInput
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.CreditTransactionModel{}).
			Where("external_ref = ?", *entry.ExternalRef).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrDuplicateGrant
		}

		var model models.CreditTransactionModel
		model.FromDomain(entry)
		if err := tx.Create(&model).Error; err != nil {
			// unique index on external_ref catches the race the count missed
			if isDuplicateKeyError(err) {
				return shared.ErrDuplicateGrant
			}
			return err
		}

		return upsertBalanceDelta(tx, entry.UserID, map[string]int{
			"create_credits":  entry.CreateCreditsDelta,
			"publish_credits": entry.PublishCreditsDelta,
		})
	})
}

// WasDeductedFor reports whether the document's creation or publication
// consumed a credit of the given kind that has not been refunded since
func (r *GormCreditRepository) WasDeductedFor(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) (bool, error) {
	return wasDeductedFor(r.db.WithContext(ctx), userID, kind, documentID)
}

// ListTransactions returns the user's ledger, newest first
func (r *GormCreditRepository) ListTransactions(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.CreditTransaction], error) {
	query := r.db.WithContext(ctx).
		Model(&models.CreditTransactionModel{}).
		Where("user_id = ?", userID)

	var total int64
	if err := applyFilterConditions(query.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var txModels []models.CreditTransactionModel
	if err := applyFilter(query, filter).Find(&txModels).Error; err != nil {
		return nil, err
	}

	items := make([]billing.CreditTransaction, len(txModels))
	for i := range txModels {
		items[i] = *txModels[i].ToDomain()
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

func wasDeductedFor(db *gorm.DB, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) (bool, error) {
	column := creditColumn(kind)

	var deductions, refunds int64
	err := db.Model(&models.CreditTransactionModel{}).
		Where("user_id = ? AND document_id = ? AND type = ? AND "+column+"_delta < 0",
			userID, documentID, billing.TransactionTypeDeduction).
		Count(&deductions).Error
	if err != nil {
		return false, err
	}

	err = db.Model(&models.CreditTransactionModel{}).
		Where("user_id = ? AND document_id = ? AND type = ? AND "+column+"_delta > 0",
			userID, documentID, billing.TransactionTypeRefund).
		Count(&refunds).Error
	if err != nil {
		return false, err
	}

	return deductions > refunds, nil
}

// upsertBalanceDelta adds the given deltas to a user's balance, inserting
// the row on first touch. The arithmetic runs inside the statement.
func upsertBalanceDelta(db *gorm.DB, userID uuid.UUID, deltas map[string]int) error {
	now := time.Now()
	model := models.CreditBalanceModel{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	assignments := map[string]interface{}{"updated_at": now}
	for column, delta := range deltas {
		if delta == 0 {
			continue
		}
		switch column {
		case "create_credits":
			model.CreateCredits = delta
		case "publish_credits":
			model.PublishCredits = delta
		}
		assignments[column] = gorm.Expr("credit_balances."+column+" + ?", delta)
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&model).Error
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// Ensure GormCreditRepository implements the interface
var _ billing.CreditRepository = (*GormCreditRepository)(nil)
