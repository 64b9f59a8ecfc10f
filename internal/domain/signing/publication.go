package signing

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/signly/backend/internal/domain/shared"
)

// PublicationStatus represents the status of a publication
type PublicationStatus string

const (
	PublicationStatusActive    PublicationStatus = "active"
	PublicationStatusExpired   PublicationStatus = "expired"
	PublicationStatusCompleted PublicationStatus = "completed"
)

// IsValid checks if the status is a valid PublicationStatus
func (s PublicationStatus) IsValid() bool {
	switch s {
	case PublicationStatusActive, PublicationStatusExpired, PublicationStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of PublicationStatus
func (s PublicationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Expiration is reversible through an update that pushes the deadline out;
// completion is terminal.
func (s PublicationStatus) CanTransitionTo(target PublicationStatus) bool {
	switch s {
	case PublicationStatusActive:
		return target == PublicationStatusExpired || target == PublicationStatusCompleted
	case PublicationStatusExpired:
		return target == PublicationStatusActive
	case PublicationStatusCompleted:
		return false
	}
	return false
}

const shortURLLength = 10

const shortURLAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewShortURL generates a random public lookup key for a publication
func NewShortURL() (string, error) {
	b := make([]byte, shortURLLength)
	max := big.NewInt(int64(len(shortURLAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = shortURLAlphabet[n.Int64()]
	}
	return string(b), nil
}

// Publication groups published documents behind a public short URL,
// optionally protected by a password and bounded by an expiry date.
type Publication struct {
	shared.OwnedAggregateRoot
	Name         string
	ShortURL     string
	PasswordHash *string
	ExpiresAt    *time.Time
	Status       PublicationStatus
	IsDeleted    bool
	DeletedAt    *time.Time
}

// NewPublication creates an active publication with a fresh short URL.
// The password, if any, must already be hashed by the caller.
func NewPublication(ownerID uuid.UUID, name string, passwordHash *string, expiresAt *time.Time) (*Publication, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Publication name cannot be empty")
	}
	if expiresAt != nil && !expiresAt.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry must be in the future")
	}

	shortURL, err := NewShortURL()
	if err != nil {
		return nil, err
	}

	return &Publication{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		ShortURL:           shortURL,
		PasswordHash:       passwordHash,
		ExpiresAt:          expiresAt,
		Status:             PublicationStatusActive,
	}, nil
}

// HasPassword reports whether public access requires a password
func (p *Publication) HasPassword() bool {
	return p.PasswordHash != nil && *p.PasswordHash != ""
}

// IsExpiredAt reports whether the expiry deadline has passed at the given
// instant, regardless of the stored status
func (p *Publication) IsExpiredAt(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

// EffectiveStatusAt computes what the status should be at the given instant,
// without mutating the publication. Expiry wins over completion; a completed
// publication never changes. Callers persist the result with a conditional
// update so concurrent lazy checks cannot double-transition.
func (p *Publication) EffectiveStatusAt(now time.Time, allDocumentsCompleted bool) PublicationStatus {
	if p.Status == PublicationStatusCompleted {
		return PublicationStatusCompleted
	}
	if p.IsExpiredAt(now) {
		return PublicationStatusExpired
	}
	if p.Status == PublicationStatusActive && allDocumentsCompleted {
		return PublicationStatusCompleted
	}
	return p.Status
}

// AcceptsSignatures reports whether public signing is currently allowed
func (p *Publication) AcceptsSignatures(now time.Time) bool {
	return !p.IsDeleted && p.Status == PublicationStatusActive && !p.IsExpiredAt(now)
}

// Rename updates the publication name
func (p *Publication) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Publication name cannot be empty")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// SetPasswordHash replaces the password hash; nil clears protection
func (p *Publication) SetPasswordHash(hash *string) {
	if hash != nil && *hash == "" {
		hash = nil
	}
	p.PasswordHash = hash
	p.UpdatedAt = time.Now()
}

// SetExpiry replaces the expiry deadline; nil removes it
func (p *Publication) SetExpiry(expiresAt *time.Time) {
	p.ExpiresAt = expiresAt
	p.UpdatedAt = time.Now()
}

// Reactivate flips an expired publication back to active after an update
// pushed its deadline out
func (p *Publication) Reactivate() error {
	if !p.Status.CanTransitionTo(PublicationStatusActive) {
		return shared.NewDomainErrorWithCause("INVALID_STATUS_TRANSITION",
			"Only expired publications can be reactivated", shared.ErrInvalidState)
	}
	p.Status = PublicationStatusActive
	p.UpdatedAt = time.Now()
	return nil
}

// SoftDelete hides a completed publication
func (p *Publication) SoftDelete(now time.Time) error {
	if p.IsDeleted {
		return nil
	}
	p.IsDeleted = true
	p.DeletedAt = &now
	p.UpdatedAt = now
	return nil
}
