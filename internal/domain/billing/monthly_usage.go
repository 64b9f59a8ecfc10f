package billing

import (
	"time"

	"github.com/google/uuid"
)

// YearMonth is the "YYYY-MM" key of a usage row
type YearMonth string

// YearMonthOf returns the usage key for the given instant
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth(t.Format("2006-01"))
}

// String returns the string representation of YearMonth
func (m YearMonth) String() string {
	return string(m)
}

// MonthlyUsage tracks a user's quota consumption for one calendar month.
// DocumentsCreated counts creation events in that month. PublishedCompleted
// counts the user's documents currently in published or completed status,
// kept on the current month's row regardless of when the document was
// created. Rows are created lazily on first access and never deleted; both
// counters floor at zero.
type MonthlyUsage struct {
	UserID             uuid.UUID
	Month              YearMonth
	DocumentsCreated   int
	PublishedCompleted int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewMonthlyUsage creates a zeroed usage row for the given user and month
func NewMonthlyUsage(userID uuid.UUID, month YearMonth) *MonthlyUsage {
	now := time.Now()
	return &MonthlyUsage{
		UserID:    userID,
		Month:     month,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
