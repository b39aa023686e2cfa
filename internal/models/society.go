package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SocietyStatusActive   = "ACTIVE"
	SocietyStatusInactive = "INACTIVE"
)

// Mail provider kinds selectable per society.
const (
	MailProviderConsole  = "console"
	MailProviderSMTP     = "smtp"
	MailProviderGmailAPI = "gmail_api"
)

type Society struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ShortName    string    `json:"short_name" db:"short_name"`
	ContactEmail string    `json:"contact_email" db:"contact_email"`
	BillingEmail string    `json:"billing_email" db:"billing_email"`
	Status       string    `json:"status" db:"status"`

	// Per-society outbound mail configuration. Credentials are never shared
	// across societies, so the mail provider is built from these fields at
	// the point of use.
	MailProvider string  `json:"mail_provider" db:"mail_provider"`
	MailFrom     *string `json:"mail_from" db:"mail_from"`
	SMTPHost     *string `json:"smtp_host" db:"smtp_host"`
	SMTPPort     *int    `json:"smtp_port" db:"smtp_port"`
	SMTPSecure   bool    `json:"smtp_secure" db:"smtp_secure"`
	SMTPUser     *string `json:"smtp_user" db:"smtp_user"`
	SMTPPass     *string `json:"-" db:"smtp_pass"`
	GmailSender  *string `json:"gmail_sender" db:"gmail_sender"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MailSettings is the slice of Society used to construct a mail provider.
type MailSettings struct {
	Provider    string
	From        *string
	SMTPHost    *string
	SMTPPort    *int
	SMTPSecure  bool
	SMTPUser    *string
	SMTPPass    *string
	GmailSender *string
}

func (s *Society) MailSettings() MailSettings {
	return MailSettings{
		Provider:    s.MailProvider,
		From:        s.MailFrom,
		SMTPHost:    s.SMTPHost,
		SMTPPort:    s.SMTPPort,
		SMTPSecure:  s.SMTPSecure,
		SMTPUser:    s.SMTPUser,
		SMTPPass:    s.SMTPPass,
		GmailSender: s.GmailSender,
	}
}

// SocietyPlan is the service plan attached to a society, one row per society.
type SocietyPlan struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	SocietyID         uuid.UUID  `json:"society_id" db:"society_id"`
	PlanName          string     `json:"plan_name" db:"plan_name"`
	ElectionSupport   bool       `json:"election_support" db:"election_support"`
	ShipmentSupport   bool       `json:"shipment_support" db:"shipment_support"`
	CommitteeSupport  bool       `json:"committee_support" db:"committee_support"`
	AccountingSupport bool       `json:"accounting_support" db:"accounting_support"`
	MonthlyFee        int64      `json:"monthly_fee" db:"monthly_fee"`
	StartDate         time.Time  `json:"start_date" db:"start_date"`
	EndDate           *time.Time `json:"end_date" db:"end_date"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}
