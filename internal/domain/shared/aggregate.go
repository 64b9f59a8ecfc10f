package shared

import "github.com/google/uuid"

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// OwnedAggregateRoot extends BaseAggregateRoot with an owning user.
// Every aggregate in the system belongs to exactly one user account.
type OwnedAggregateRoot struct {
	BaseAggregateRoot
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewOwnedAggregateRoot creates a new aggregate root owned by the given user
func NewOwnedAggregateRoot(ownerID uuid.UUID) OwnedAggregateRoot {
	return OwnedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		OwnerID:           ownerID,
	}
}
