package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signly/backend/internal/domain/billing"
)

// SubscriptionPlanModel is the persistence model for the SubscriptionPlan entity.
type SubscriptionPlanModel struct {
	AggregateModel
	Code                 string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                 string `gorm:"type:varchar(100);not null"`
	MonthlyDocumentLimit int    `gorm:"not null;default:0"`
	ActiveDocumentLimit  int    `gorm:"not null;default:0"`
	Rank                 int    `gorm:"not null;default:0;index"`
	IsActive             bool   `gorm:"not null;default:true"`
	IsHidden             bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SubscriptionPlanModel) TableName() string {
	return "subscription_plans"
}

// ToDomain converts the persistence model to a domain SubscriptionPlan
func (m *SubscriptionPlanModel) ToDomain() *billing.SubscriptionPlan {
	return &billing.SubscriptionPlan{
		BaseAggregateRoot:    m.ToDomainAggregateRoot(),
		Code:                 m.Code,
		Name:                 m.Name,
		MonthlyDocumentLimit: m.MonthlyDocumentLimit,
		ActiveDocumentLimit:  m.ActiveDocumentLimit,
		Rank:                 m.Rank,
		IsActive:             m.IsActive,
		IsHidden:             m.IsHidden,
	}
}

// FromDomain populates the persistence model from a domain SubscriptionPlan
func (m *SubscriptionPlanModel) FromDomain(p *billing.SubscriptionPlan) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.MonthlyDocumentLimit = p.MonthlyDocumentLimit
	m.ActiveDocumentLimit = p.ActiveDocumentLimit
	m.Rank = p.Rank
	m.IsActive = p.IsActive
	m.IsHidden = p.IsHidden
}

// SubscriptionModel is the persistence model for the Subscription entity.
type SubscriptionModel struct {
	OwnedAggregateModel
	PlanID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status   string     `gorm:"type:varchar(20);not null;index"`
	StartsAt time.Time  `gorm:"not null"`
	EndsAt   *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	return &billing.Subscription{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		PlanID:             m.PlanID,
		Status:             billing.SubscriptionStatus(m.Status),
		StartsAt:           m.StartsAt,
		EndsAt:             m.EndsAt,
	}
}

// FromDomain populates the persistence model from a domain Subscription
func (m *SubscriptionModel) FromDomain(s *billing.Subscription) {
	m.FromDomainOwnedAggregateRoot(s.OwnedAggregateRoot)
	m.PlanID = s.PlanID
	m.Status = s.Status.String()
	m.StartsAt = s.StartsAt
	m.EndsAt = s.EndsAt
}

// MonthlyUsageModel is the persistence model for per-month usage counters.
// Keyed by (user, month); counters only ever move through atomic updates.
type MonthlyUsageModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usage_user_month,priority:1"`
	Month              string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_usage_user_month,priority:2"`
	DocumentsCreated   int       `gorm:"not null;default:0"`
	PublishedCompleted int       `gorm:"column:published_completed_count;not null;default:0"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MonthlyUsageModel) TableName() string {
	return "monthly_usages"
}

// ToDomain converts the persistence model to a domain MonthlyUsage
func (m *MonthlyUsageModel) ToDomain() *billing.MonthlyUsage {
	return &billing.MonthlyUsage{
		UserID:             m.UserID,
		Month:              billing.YearMonth(m.Month),
		DocumentsCreated:   m.DocumentsCreated,
		PublishedCompleted: m.PublishedCompleted,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// CreditBalanceModel is the persistence model for a user's credit balance.
// One row per user; balances only ever move through conditional updates.
type CreditBalanceModel struct {
	UserID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CreateCredits  int       `gorm:"not null;default:0"`
	PublishCredits int       `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CreditBalanceModel) TableName() string {
	return "credit_balances"
}

// ToDomain converts the persistence model to a domain CreditBalance
func (m *CreditBalanceModel) ToDomain() *billing.CreditBalance {
	return &billing.CreditBalance{
		UserID:         m.UserID,
		CreateCredits:  m.CreateCredits,
		PublishCredits: m.PublishCredits,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// CreditTransactionModel is the persistence model for the append-only credit
// ledger. The unique index on external_ref makes repeated payment webhooks
// idempotent at the store.
type CreditTransactionModel struct {
	BaseModel
	UserID              uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type                string           `gorm:"type:varchar(20);not null"`
	CreateCreditsDelta  int              `gorm:"not null;default:0"`
	PublishCreditsDelta int              `gorm:"not null;default:0"`
	DocumentID          *uuid.UUID       `gorm:"type:uuid;index"`
	ExternalRef         *string          `gorm:"type:varchar(255);uniqueIndex"`
	AmountPaid          *decimal.Decimal `gorm:"type:decimal(18,2)"`
}

// TableName returns the table name for GORM
func (CreditTransactionModel) TableName() string {
	return "credit_transactions"
}

// ToDomain converts the persistence model to a domain CreditTransaction
func (m *CreditTransactionModel) ToDomain() *billing.CreditTransaction {
	return &billing.CreditTransaction{
		BaseEntity:          m.BaseModel.ToDomain(),
		UserID:              m.UserID,
		Type:                billing.TransactionType(m.Type),
		CreateCreditsDelta:  m.CreateCreditsDelta,
		PublishCreditsDelta: m.PublishCreditsDelta,
		DocumentID:          m.DocumentID,
		ExternalRef:         m.ExternalRef,
		AmountPaid:          m.AmountPaid,
	}
}

// FromDomain populates the persistence model from a domain CreditTransaction
func (m *CreditTransactionModel) FromDomain(t *billing.CreditTransaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.UserID = t.UserID
	m.Type = string(t.Type)
	m.CreateCreditsDelta = t.CreateCreditsDelta
	m.PublishCreditsDelta = t.PublishCreditsDelta
	m.DocumentID = t.DocumentID
	m.ExternalRef = t.ExternalRef
	m.AmountPaid = t.AmountPaid
}
