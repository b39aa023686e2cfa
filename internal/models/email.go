package models

import (
	"time"

	"github.com/google/uuid"
)

// Email approval statuses, forward-only: DRAFT -> APPROVED -> SENT.
const (
	EmailApprovalStatusDraft    = "DRAFT"
	EmailApprovalStatusApproved = "APPROVED"
	EmailApprovalStatusSent     = "SENT"
)

// Email send log statuses. SENT is terminal; FAILED rows stay behind as the
// durable failure record.
const (
	EmailSendStatusQueued = "QUEUED"
	EmailSendStatusSent   = "SENT"
	EmailSendStatusFailed = "FAILED"
)

// EmailTemplate holds a subject and body with {{placeholder}} tokens,
// unique per (society, key).
type EmailTemplate struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SocietyID uuid.UUID `json:"society_id" db:"society_id"`
	Key       string    `json:"key" db:"key"`
	Name      string    `json:"name" db:"name"`
	Subject   string    `json:"subject" db:"subject"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EmailTargetFilter selects the invoices a bulk mail addresses. The filter
// is captured on the approval at creation time and re-resolved against
// current state when recipients are enqueued.
type EmailTargetFilter struct {
	FiscalYear    int    `json:"fiscal_year,omitempty"`
	InvoiceStatus string `json:"invoice_status,omitempty"`
	OverdueOnly   bool   `json:"overdue_only,omitempty"`
}

// EmailApproval is a named batch of outbound mail gated behind approval.
type EmailApproval struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	SocietyID        uuid.UUID         `json:"society_id" db:"society_id"`
	Title            string            `json:"title" db:"title"`
	TemplateKey      string            `json:"template_key" db:"template_key"`
	Filter           EmailTargetFilter `json:"filter" db:"filter_json"`
	Status           string            `json:"status" db:"status"`
	CreatedByUserID  uuid.UUID         `json:"created_by_user_id" db:"created_by_user_id"`
	ApprovedByUserID *uuid.UUID        `json:"approved_by_user_id" db:"approved_by_user_id"`
	ApprovedAt       *time.Time        `json:"approved_at" db:"approved_at"`
	SentAt           *time.Time        `json:"sent_at" db:"sent_at"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`

	RecipientCount int `json:"recipient_count,omitempty" db:"-"`
}

// EmailSendLog is one recipient row of an approval. At most one row exists
// per (approval, invoice); subject and body are snapshotted at enqueue time.
type EmailSendLog struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	SocietyID         uuid.UUID  `json:"society_id" db:"society_id"`
	EmailApprovalID   uuid.UUID  `json:"email_approval_id" db:"email_approval_id"`
	TemplateKey       string     `json:"template_key" db:"template_key"`
	To                string     `json:"to" db:"to_address"`
	Subject           string     `json:"subject" db:"subject"`
	Body              string     `json:"body" db:"body"`
	Status            string     `json:"status" db:"status"`
	MemberID          *uuid.UUID `json:"member_id" db:"member_id"`
	InvoiceID         *uuid.UUID `json:"invoice_id" db:"invoice_id"`
	ProviderMessageID *string    `json:"provider_message_id" db:"provider_message_id"`
	ErrorMessage      *string    `json:"error_message" db:"error_message"`
	SentAt            *time.Time `json:"sent_at" db:"sent_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// EmailPreview is one rendered row of a pre-send preview. Nothing is
// persisted for previews.
type EmailPreview struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	MemberID  uuid.UUID `json:"member_id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}

// SendResult aggregates the outcome of dispatching one approval.
type SendResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}
