// Package testutil provides shared helpers for the integration test suite:
// an in-memory SQLite database with the full schema, seeding helpers for
// users, plans and subscriptions, and a factory that wires the real
// application services over GORM repositories.
package testutil

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appbilling "github.com/signly/backend/internal/application/billing"
	appsigning "github.com/signly/backend/internal/application/signing"
	"github.com/signly/backend/internal/domain/billing"
	"github.com/signly/backend/internal/infrastructure/cache"
	"github.com/signly/backend/internal/infrastructure/persistence"
	"github.com/signly/backend/internal/infrastructure/persistence/models"
	"github.com/signly/backend/internal/infrastructure/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// OpenDB opens an in-memory SQLite database with the full schema
func OpenDB(t *testing.T) *gorm.DB {
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

// NewTestUUID derives a deterministic UUID from a seed string
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// SeedUser inserts a user row and returns its ID
func SeedUser(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()

	now := time.Now()
	user := models.UserModel{
		Email:    email,
		Name:     email,
		IsActive: true,
	}
	user.ID = NewTestUUID("user:" + email)
	user.CreatedAt = now
	user.UpdatedAt = now
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

// SeedPlan inserts a subscription plan and returns its ID
func SeedPlan(t *testing.T, db *gorm.DB, code string, monthlyLimit, activeLimit, rank int) uuid.UUID {
	t.Helper()

	now := time.Now()
	plan := models.SubscriptionPlanModel{
		Code:                 code,
		Name:                 code,
		MonthlyDocumentLimit: monthlyLimit,
		ActiveDocumentLimit:  activeLimit,
		Rank:                 rank,
		IsActive:             true,
	}
	plan.ID = NewTestUUID("plan:" + code)
	plan.Version = 1
	plan.CreatedAt = now
	plan.UpdatedAt = now
	require.NoError(t, db.Create(&plan).Error)
	return plan.ID
}

// SeedSubscription puts the user on the given plan with an active subscription
func SeedSubscription(t *testing.T, db *gorm.DB, userID, planID uuid.UUID) {
	t.Helper()
	SeedSubscriptionRow(t, db, userID, planID, billing.SubscriptionStatusActive, time.Now().Add(-time.Hour))
}

// SeedSubscriptionRow inserts a subscription with an explicit status and start
func SeedSubscriptionRow(t *testing.T, db *gorm.DB, userID, planID uuid.UUID, status billing.SubscriptionStatus, startsAt time.Time) {
	t.Helper()

	now := time.Now()
	sub := models.SubscriptionModel{
		PlanID:   planID,
		Status:   status.String(),
		StartsAt: startsAt,
	}
	sub.ID = uuid.New()
	sub.OwnerID = userID
	sub.Version = 1
	sub.CreatedAt = now
	sub.UpdatedAt = now
	require.NoError(t, db.Create(&sub).Error)
}

// SeedMonthlyUsage sets the user's counters for the current month
func SeedMonthlyUsage(t *testing.T, db *gorm.DB, userID uuid.UUID, created, active int) {
	t.Helper()

	now := time.Now()
	usage := models.MonthlyUsageModel{
		ID:                 uuid.New(),
		UserID:             userID,
		Month:              billing.YearMonthOf(now).String(),
		DocumentsCreated:   created,
		PublishedCompleted: active,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, db.Create(&usage).Error)
}

// Services bundles the real application services wired over GORM
// repositories, the way cmd/server does it, minus external backends
type Services struct {
	DB           *gorm.DB
	Storage      *storage.MemoryObjectStorage
	Entitlements *appbilling.EntitlementService
	Credits      *appbilling.CreditService
	Usage        *appbilling.UsageService
	Documents    *appsigning.DocumentService
	Publications *appsigning.PublicationService
}

// NewServices builds the full service stack over the given database
func NewServices(t *testing.T, db *gorm.DB) *Services {
	t.Helper()

	log := zap.NewNop()

	planRepo := persistence.NewGormPlanRepository(db)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db)
	usageRepo := persistence.NewGormMonthlyUsageRepository(db)
	creditRepo := persistence.NewGormCreditRepository(db)
	documentRepo := persistence.NewGormDocumentRepository(db)
	areaRepo := persistence.NewGormSignatureAreaRepository(db)
	publicationRepo := persistence.NewGormPublicationRepository(db)

	objectStorage := storage.NewMemoryObjectStorage()

	entitlements := appbilling.NewEntitlementService(planRepo, subscriptionRepo, usageRepo, creditRepo, log)
	credits := appbilling.NewCreditService(creditRepo, log)
	usage := appbilling.NewUsageService(usageRepo, log)

	documents := appsigning.NewDocumentService(
		documentRepo, areaRepo, publicationRepo,
		entitlements, credits, usage, objectStorage, log,
	)
	publications := appsigning.NewPublicationService(
		publicationRepo, documentRepo, areaRepo,
		entitlements, credits, usage, log,
	)
	documents.SetPublicationCompleter(publications)
	publications.SetCache(cache.NewInMemoryShortURLCache(time.Minute))

	return &Services{
		DB:           db,
		Storage:      objectStorage,
		Entitlements: entitlements,
		Credits:      credits,
		Usage:        usage,
		Documents:    documents,
		Publications: publications,
	}
}
