package signing

import (
	"context"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/signly/backend/internal/application/billing"
	"github.com/signly/backend/internal/domain/billing"
)

// AllowedContentTypes defines the whitelist of allowed content types for
// document uploads. SVG is excluded: it can carry scripts and is rendered in
// the public signing page.
var AllowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3 or the local stub).
type ObjectStorageService interface {
	// Upload stores a file under the given key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// EntitlementChecker answers quota questions before a lifecycle service
// commits anything
type EntitlementChecker interface {
	CanCreateDocument(ctx context.Context, userID uuid.UUID) (billing.CreateDecision, error)
	Snapshot(ctx context.Context, userID uuid.UUID) (billing.EntitlementSnapshot, error)
}

// CreditSpender is the slice of the credit ledger the lifecycle services use
type CreditSpender interface {
	Deduct(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error
	Refund(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) error
	WasDeductedFor(ctx context.Context, userID uuid.UUID, kind billing.CreditKind, documentID uuid.UUID) (bool, error)
}

// UsageRecorder mutates the current month's usage counters. Every document
// status transition must hit it exactly once.
type UsageRecorder interface {
	IncrementCreated(ctx context.Context, userID uuid.UUID) error
	DecrementCreated(ctx context.Context, userID uuid.UUID) error
	IncrementActive(ctx context.Context, userID uuid.UUID, delta int) error
	DecrementActive(ctx context.Context, userID uuid.UUID, delta int) error
}

// ShortURLCache caches the shortURL → publication ID lookup for the public
// signing page. Status transitions never go through it.
type ShortURLCache interface {
	GetPublicationID(ctx context.Context, shortURL string) (uuid.UUID, error)
	SetPublicationID(ctx context.Context, shortURL string, id uuid.UUID) error
	Invalidate(ctx context.Context, shortURL string) error
}

var (
	_ EntitlementChecker = (*appbilling.EntitlementService)(nil)
	_ CreditSpender      = (*appbilling.CreditService)(nil)
	_ UsageRecorder      = (*appbilling.UsageService)(nil)
)
