package persistence

import (
	"testing"

	"github.com/signly/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.SubscriptionPlanModel{},
		&models.SubscriptionModel{},
		&models.MonthlyUsageModel{},
		&models.CreditBalanceModel{},
		&models.CreditTransactionModel{},
		&models.DocumentModel{},
		&models.SignatureAreaModel{},
		&models.PublicationModel{},
	)
	require.NoError(t, err)

	return db
}
