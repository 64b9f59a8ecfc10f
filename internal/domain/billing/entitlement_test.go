package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntitlementSnapshot_Limits(t *testing.T) {
	t.Run("reports remaining headroom", func(t *testing.T) {
		snap := EntitlementSnapshot{
			MonthlyDocumentLimit: 5,
			ActiveDocumentLimit:  3,
			DocumentsCreated:     2,
			ActiveDocuments:      1,
		}

		limits := snap.Limits()

		assert.Equal(t, 5, limits.MonthlyCreationLimit)
		assert.Equal(t, 3, limits.ActiveDocumentLimit)
		assert.Equal(t, 2, limits.CurrentMonthlyCreated)
		assert.Equal(t, 1, limits.CurrentActiveDocuments)
		assert.True(t, limits.CanCreateNew)
		assert.True(t, limits.CanPublishMore)
	})

	t.Run("flags exhausted quotas", func(t *testing.T) {
		snap := EntitlementSnapshot{
			MonthlyDocumentLimit: 5,
			ActiveDocumentLimit:  3,
			DocumentsCreated:     5,
			ActiveDocuments:      3,
		}

		limits := snap.Limits()

		assert.False(t, limits.CanCreateNew)
		assert.False(t, limits.CanPublishMore)
	})

	t.Run("unlimited plan never exhausts", func(t *testing.T) {
		snap := EntitlementSnapshot{
			MonthlyDocumentLimit: UnlimitedLimit,
			ActiveDocumentLimit:  UnlimitedLimit,
			DocumentsCreated:     1000,
			ActiveDocuments:      1000,
		}

		limits := snap.Limits()

		assert.True(t, limits.CanCreateNew)
		assert.True(t, limits.CanPublishMore)
	})
}

func TestEntitlementSnapshot_CanCreateDocument(t *testing.T) {
	t.Run("within quota needs no credit", func(t *testing.T) {
		snap := EntitlementSnapshot{MonthlyDocumentLimit: 5, DocumentsCreated: 4}

		d := snap.CanCreateDocument()

		assert.True(t, d.CanCreate)
		assert.False(t, d.UsingCredit)
	})

	t.Run("at quota falls back to a create credit", func(t *testing.T) {
		snap := EntitlementSnapshot{MonthlyDocumentLimit: 5, DocumentsCreated: 5, CreateCredits: 1}

		d := snap.CanCreateDocument()

		assert.True(t, d.CanCreate)
		assert.True(t, d.UsingCredit)
	})

	t.Run("at quota with no credits is denied", func(t *testing.T) {
		snap := EntitlementSnapshot{MonthlyDocumentLimit: 5, DocumentsCreated: 5}

		d := snap.CanCreateDocument()

		assert.False(t, d.CanCreate)
		assert.False(t, d.UsingCredit)
	})

	t.Run("unlimited plan ignores credits", func(t *testing.T) {
		snap := EntitlementSnapshot{MonthlyDocumentLimit: UnlimitedLimit, DocumentsCreated: 9999}

		d := snap.CanCreateDocument()

		assert.True(t, d.CanCreate)
		assert.False(t, d.UsingCredit)
	})

	t.Run("zero limit plan relies entirely on credits", func(t *testing.T) {
		snap := EntitlementSnapshot{MonthlyDocumentLimit: 0, CreateCredits: 2}

		d := snap.CanCreateDocument()

		assert.True(t, d.CanCreate)
		assert.True(t, d.UsingCredit)
	})
}

func TestEntitlementSnapshot_CanCreatePublication(t *testing.T) {
	t.Run("allows within active limit", func(t *testing.T) {
		snap := EntitlementSnapshot{ActiveDocumentLimit: 3, ActiveDocuments: 1}

		d := snap.CanCreatePublication(2)

		assert.True(t, d.CanCreate)
		assert.Empty(t, d.Reason)
	})

	t.Run("denies past active limit without credits", func(t *testing.T) {
		snap := EntitlementSnapshot{ActiveDocumentLimit: 3, ActiveDocuments: 2}

		d := snap.CanCreatePublication(2)

		assert.False(t, d.CanCreate)
		assert.NotEmpty(t, d.Reason)
	})

	t.Run("publish credits extend the limit", func(t *testing.T) {
		snap := EntitlementSnapshot{ActiveDocumentLimit: 3, ActiveDocuments: 2, PublishCredits: 1}

		d := snap.CanCreatePublication(2)

		assert.True(t, d.CanCreate)
	})

	t.Run("over-committed month eats into credits", func(t *testing.T) {
		// remaining is -1, so 3 credits only cover 2 documents
		snap := EntitlementSnapshot{ActiveDocumentLimit: 3, ActiveDocuments: 4, PublishCredits: 3}

		assert.True(t, snap.CanCreatePublication(2).CanCreate)
		assert.False(t, snap.CanCreatePublication(3).CanCreate)
	})

	t.Run("unlimited plan allows any batch", func(t *testing.T) {
		snap := EntitlementSnapshot{ActiveDocumentLimit: UnlimitedLimit, ActiveDocuments: 500}

		assert.True(t, snap.CanCreatePublication(100).CanCreate)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		snap := EntitlementSnapshot{ActiveDocumentLimit: 3}

		d := snap.CanCreatePublication(0)

		assert.False(t, d.CanCreate)
		assert.NotEmpty(t, d.Reason)
	})
}

func TestEntitlementSnapshot_PublishCreditsNeeded(t *testing.T) {
	tests := []struct {
		name     string
		snap     EntitlementSnapshot
		count    int
		expected int
	}{
		{"fully within limit", EntitlementSnapshot{ActiveDocumentLimit: 5, ActiveDocuments: 1}, 2, 0},
		{"exactly at limit", EntitlementSnapshot{ActiveDocumentLimit: 5, ActiveDocuments: 3}, 2, 0},
		{"partially past limit", EntitlementSnapshot{ActiveDocumentLimit: 5, ActiveDocuments: 4}, 3, 2},
		{"entirely past limit", EntitlementSnapshot{ActiveDocumentLimit: 3, ActiveDocuments: 3}, 2, 2},
		{"negative remaining floors at zero free slots", EntitlementSnapshot{ActiveDocumentLimit: 3, ActiveDocuments: 5}, 2, 2},
		{"unlimited plan never spends", EntitlementSnapshot{ActiveDocumentLimit: UnlimitedLimit, ActiveDocuments: 99}, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.snap.PublishCreditsNeeded(tt.count))
		})
	}
}
