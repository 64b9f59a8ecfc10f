package billing

import "fmt"

// EntitlementSnapshot is the read-only input to every entitlement decision:
// the effective plan's limits, the current month's usage, and the credit
// balance, captured at one point in time. Keeping the decision math pure
// lets callers spend credits only after all other validation has passed and
// gives both lifecycle services identical limit arithmetic.
type EntitlementSnapshot struct {
	MonthlyDocumentLimit int
	ActiveDocumentLimit  int
	DocumentsCreated     int
	ActiveDocuments      int
	CreateCredits        int
	PublishCredits       int
}

// Limits is the user-facing summary of plan limits and current usage
type Limits struct {
	MonthlyCreationLimit   int  `json:"monthly_creation_limit"`
	ActiveDocumentLimit    int  `json:"active_document_limit"`
	CurrentMonthlyCreated  int  `json:"current_monthly_created"`
	CurrentActiveDocuments int  `json:"current_active_documents"`
	CanCreateNew           bool `json:"can_create_new"`
	CanPublishMore         bool `json:"can_publish_more"`
}

// CreateDecision is the outcome of a document-creation entitlement check.
// UsingCredit tells the caller a create credit must be deducted after the
// document is persisted.
type CreateDecision struct {
	CanCreate   bool
	UsingCredit bool
}

// PublishDecision is the outcome of a publication-creation entitlement check
type PublishDecision struct {
	CanCreate bool
	Reason    string
}

// Limits computes the quota summary for the snapshot
func (s EntitlementSnapshot) Limits() Limits {
	return Limits{
		MonthlyCreationLimit:   s.MonthlyDocumentLimit,
		ActiveDocumentLimit:    s.ActiveDocumentLimit,
		CurrentMonthlyCreated:  s.DocumentsCreated,
		CurrentActiveDocuments: s.ActiveDocuments,
		CanCreateNew:           s.MonthlyDocumentLimit == UnlimitedLimit || s.DocumentsCreated < s.MonthlyDocumentLimit,
		CanPublishMore:         s.ActiveDocumentLimit == UnlimitedLimit || s.ActiveDocuments < s.ActiveDocumentLimit,
	}
}

// CanCreateDocument decides whether a new document may be created.
// Within the monthly quota no credit is spent; past it, one create credit
// covers the document.
func (s EntitlementSnapshot) CanCreateDocument() CreateDecision {
	if s.MonthlyDocumentLimit == UnlimitedLimit || s.DocumentsCreated < s.MonthlyDocumentLimit {
		return CreateDecision{CanCreate: true}
	}
	if s.CreateCredits > 0 {
		return CreateDecision{CanCreate: true, UsingCredit: true}
	}
	return CreateDecision{}
}

// CanCreatePublication decides whether documentCount documents may be
// published at once. The remaining monthly allotment is deliberately not
// clamped before blending with publish credits: an over-committed month
// eats into the credit pool.
func (s EntitlementSnapshot) CanCreatePublication(documentCount int) PublishDecision {
	if documentCount <= 0 {
		return PublishDecision{Reason: "no documents selected"}
	}
	if s.ActiveDocumentLimit == UnlimitedLimit {
		return PublishDecision{CanCreate: true}
	}
	remaining := s.ActiveDocumentLimit - s.ActiveDocuments
	totalAvailable := remaining + s.PublishCredits
	if totalAvailable >= documentCount {
		return PublishDecision{CanCreate: true}
	}
	return PublishDecision{
		Reason: fmt.Sprintf("publishing %d documents exceeds the %d slot(s) available (%d remaining this month, %d publish credit(s))",
			documentCount, totalAvailable, remaining, s.PublishCredits),
	}
}

// PublishCreditsNeeded returns how many publish credits a publication of
// documentCount documents consumes after the free monthly allotment is used
// up. Zero for unlimited plans; a negative remaining allotment counts as
// zero free slots.
func (s EntitlementSnapshot) PublishCreditsNeeded(documentCount int) int {
	if s.ActiveDocumentLimit == UnlimitedLimit {
		return 0
	}
	remaining := s.ActiveDocumentLimit - s.ActiveDocuments
	if remaining < 0 {
		remaining = 0
	}
	needed := documentCount - remaining
	if needed < 0 {
		return 0
	}
	return needed
}
