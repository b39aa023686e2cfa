package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ShipmentTypeJournal = "JOURNAL"
	ShipmentTypeNotice  = "NOTICE"
	ShipmentTypeOther   = "OTHER"
)

const (
	ShipmentStatusQueued   = "QUEUED"
	ShipmentStatusShipped  = "SHIPPED"
	ShipmentStatusReturned = "RETURNED"
)

type ShipmentBatch struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SocietyID   uuid.UUID `json:"society_id" db:"society_id"`
	Type        string    `json:"type" db:"type"`
	Title       *string   `json:"title" db:"title"`
	CreatedByID uuid.UUID `json:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	RecipientCount int `json:"recipient_count,omitempty" db:"-"`
}

// ShipmentRecipient carries the member's address as it was when the batch
// was created, so later address edits do not rewrite shipping history.
type ShipmentRecipient struct {
	ID              uuid.UUID `json:"id" db:"id"`
	BatchID         uuid.UUID `json:"batch_id" db:"batch_id"`
	MemberID        uuid.UUID `json:"member_id" db:"member_id"`
	AddressSnapshot string    `json:"address_snapshot" db:"address_snapshot"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	Member *Member `json:"member,omitempty" db:"-"`
}
