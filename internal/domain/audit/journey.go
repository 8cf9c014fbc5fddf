package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/lindabi/backend/internal/domain/shared"
)

// Owner types of journey entries.
const (
	OwnerTypeTender     = "tender"
	OwnerTypeTenderItem = "tender_item"
)

// Journey is one append-only audit record: who did what to which entity,
// and for field-level diffs, which property changed from what to what.
// The core never updates or deletes journey rows.
type Journey struct {
	shared.BaseEntity
	OwnerType string    `gorm:"type:varchar(32);not null;index:idx_journeys_owner"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_journeys_owner"`
	Activity  string    `gorm:"type:varchar(64);not null"`
	Property  *string   `gorm:"type:varchar(64)"`
	Existed   *string   `gorm:"type:text"`
	Updated   *string   `gorm:"type:text"`
	Actor     string    `gorm:"type:varchar(64);not null"`
}

// TableName returns the database table name.
func (Journey) TableName() string {
	return "journeys"
}

// NewJourney creates a journey entry for the given owner and activity.
func NewJourney(ownerType string, ownerID uuid.UUID, activity, actor string) (*Journey, error) {
	if ownerType == "" {
		return nil, shared.NewDomainError("INVALID_OWNER_TYPE", "Owner type cannot be empty")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if activity == "" {
		return nil, shared.NewDomainError("INVALID_ACTIVITY", "Activity cannot be empty")
	}

	return &Journey{
		BaseEntity: shared.NewBaseEntity(),
		OwnerType:  ownerType,
		OwnerID:    ownerID,
		Activity:   activity,
		Actor:      actor,
	}, nil
}

// WithChange attaches a field-level change to the entry.
func (j *Journey) WithChange(property, existed, updated string) *Journey {
	j.Property = &property
	j.Existed = &existed
	j.Updated = &updated
	return j
}

// Repository is the persistence port for journey entries. Append
// participates in the caller's transaction when the repository is scoped
// to one.
type Repository interface {
	Append(ctx context.Context, entry *Journey) error
	// FindByOwner returns the owner's entries, newest first.
	FindByOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]Journey, error)
}
