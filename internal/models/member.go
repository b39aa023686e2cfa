package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MemberStatusActive   = "ACTIVE"
	MemberStatusInactive = "INACTIVE"
)

// Member is a society's own constituent, not a platform User. The member
// number is unique within a society.
type Member struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	SocietyID   uuid.UUID  `json:"society_id" db:"society_id"`
	MemberNo    string     `json:"member_no" db:"member_no"`
	Name        string     `json:"name" db:"name"`
	Kana        *string    `json:"kana" db:"kana"`
	Affiliation string     `json:"affiliation" db:"affiliation"`
	Address     string     `json:"address" db:"address"`
	Email       string     `json:"email" db:"email"`
	Phone       *string    `json:"phone" db:"phone"`
	MemberType  string     `json:"member_type" db:"member_type"`
	Position    *string    `json:"position" db:"position"`
	Status      string     `json:"status" db:"status"`
	JoinedAt    time.Time  `json:"joined_at" db:"joined_at"`
	LeftAt      *time.Time `json:"left_at" db:"left_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	// Invoices is populated on detail reads only.
	Invoices []*Invoice `json:"invoices,omitempty" db:"-"`
}

// MemberFilters narrows roster listings. Query matches member number, name,
// affiliation or email as a case-insensitive substring.
type MemberFilters struct {
	Query  string
	Status string // ACTIVE, INACTIVE or empty for all
}
