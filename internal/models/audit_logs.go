package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB represents a JSONB column value.
type JSONB map[string]interface{}

// Audited resource types.
const (
	ResourceSociety           = "SOCIETY"
	ResourceSocietyMember     = "SOCIETY_MEMBER"
	ResourceMember            = "MEMBER"
	ResourceInvoice           = "INVOICE"
	ResourceReceipt           = "RECEIPT"
	ResourceEmailTemplate     = "EMAIL_TEMPLATE"
	ResourceEmailApproval     = "EMAIL_APPROVAL"
	ResourceEmailSendLog      = "EMAIL_SEND_LOG"
	ResourceMeeting           = "MEETING"
	ResourceAttendance        = "ATTENDANCE"
	ResourceMeetingDocument   = "MEETING_DOCUMENT"
	ResourceMinutes           = "MINUTES"
	ResourceTask              = "TASK"
	ResourceDecision          = "DECISION"
	ResourceArchive           = "ARCHIVE"
	ResourceShipmentBatch     = "SHIPMENT_BATCH"
	ResourceShipmentRecipient = "SHIPMENT_RECIPIENT"
	ResourcePlan              = "PLAN_CHANGE"
	ResourceUser              = "USER"
)

// AuditLog is one immutable change record. SocietyID is nil for
// operator-level actions and ActorUserID is nil for system-driven ones.
type AuditLog struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	SocietyID    *uuid.UUID `json:"society_id" db:"society_id"`
	ActorUserID  *uuid.UUID `json:"actor_user_id" db:"actor_user_id"`
	ResourceType string     `json:"resource_type" db:"resource_type"`
	ResourceID   string     `json:"resource_id" db:"resource_id"`
	Action       string     `json:"action" db:"action"`
	BeforeJSON   JSONB      `json:"before_json" db:"before_json"`
	AfterJSON    JSONB      `json:"after_json" db:"after_json"`
	MetaJSON     JSONB      `json:"meta_json" db:"meta_json"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
