package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses. Manual updates may set any status; the system itself
// only performs DRAFT creation, the APPROVED/SENT -> OVERDUE sweep and the
// APPROVED -> SENT flip when a dues email goes out.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusApproved  = "APPROVED"
	InvoiceStatusSent      = "SENT"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusOverdue   = "OVERDUE"
	InvoiceStatusCancelled = "CANCELLED"
)

const (
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodCard         = "CARD"
	PaymentMethodOther        = "OTHER"
)

func ValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceStatusDraft, InvoiceStatusApproved, InvoiceStatusSent,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice bills one member for one fiscal year. At most one invoice exists
// per (society, member, fiscal year); amounts are integral JPY.
type Invoice struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	SocietyID     uuid.UUID  `json:"society_id" db:"society_id"`
	MemberID      uuid.UUID  `json:"member_id" db:"member_id"`
	FiscalYear    int        `json:"fiscal_year" db:"fiscal_year"`
	Amount        int64      `json:"amount" db:"amount"`
	DueDate       time.Time  `json:"due_date" db:"due_date"`
	Status        string     `json:"status" db:"status"`
	PaymentMethod *string    `json:"payment_method" db:"payment_method"`
	Notes         *string    `json:"notes" db:"notes"`
	SentAt        *time.Time `json:"sent_at" db:"sent_at"`
	PaidAt        *time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	Member  *Member  `json:"member,omitempty" db:"-"`
	Receipt *Receipt `json:"receipt,omitempty" db:"-"`
}

// InvoiceFilters narrows invoice listings.
type InvoiceFilters struct {
	FiscalYear int       // 0 for all years
	Status     string    // empty for all statuses
	MemberID   uuid.UUID // uuid.Nil for all members
}

// GenerateResult aggregates the outcome of an annual bulk generation run.
type GenerateResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Receipt is issued for a paid invoice, at most one per invoice. Receipt
// numbers are sequential within a (society, year) pair.
type Receipt struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SocietyID uuid.UUID `json:"society_id" db:"society_id"`
	InvoiceID uuid.UUID `json:"invoice_id" db:"invoice_id"`
	ReceiptNo string    `json:"receipt_no" db:"receipt_no"`
	FilePath  string    `json:"file_path" db:"file_path"`
	IssuedAt  time.Time `json:"issued_at" db:"issued_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
