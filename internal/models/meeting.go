package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MeetingTypeBoard     = "BOARD"
	MeetingTypeCommittee = "COMMITTEE"
	MeetingTypeOther     = "OTHER"
)

const (
	MeetingStatusDraft     = "DRAFT"
	MeetingStatusScheduled = "SCHEDULED"
	MeetingStatusDone      = "DONE"
)

const (
	AttendanceYes   = "YES"
	AttendanceNo    = "NO"
	AttendanceMaybe = "MAYBE"
)

const (
	TaskStatusOpen = "OPEN"
	TaskStatusDone = "DONE"
)

type Meeting struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SocietyID   uuid.UUID `json:"society_id" db:"society_id"`
	Title       string    `json:"title" db:"title"`
	Type        string    `json:"type" db:"type"`
	ScheduledAt time.Time `json:"scheduled_at" db:"scheduled_at"`
	Location    *string   `json:"location" db:"location"`
	OnlineURL   *string   `json:"online_url" db:"online_url"`
	Agenda      *string   `json:"agenda" db:"agenda"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Attendance records one member's (or external guest's) reply for a meeting.
type Attendance struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	MeetingID    uuid.UUID  `json:"meeting_id" db:"meeting_id"`
	MemberID     *uuid.UUID `json:"member_id" db:"member_id"`
	ExternalName *string    `json:"external_name" db:"external_name"`
	Status       string     `json:"status" db:"status"`
	Note         *string    `json:"note" db:"note"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type MeetingDocument struct {
	ID           uuid.UUID `json:"id" db:"id"`
	MeetingID    uuid.UUID `json:"meeting_id" db:"meeting_id"`
	Title        string    `json:"title" db:"title"`
	Version      int       `json:"version" db:"version"`
	FileURL      string    `json:"file_url" db:"file_url"`
	UploadedByID uuid.UUID `json:"uploaded_by_id" db:"uploaded_by_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Minutes holds one meeting's minutes text, one row per meeting.
type Minutes struct {
	ID          uuid.UUID `json:"id" db:"id"`
	MeetingID   uuid.UUID `json:"meeting_id" db:"meeting_id"`
	MinutesText string    `json:"minutes_text" db:"minutes_text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Task struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	MeetingID uuid.UUID  `json:"meeting_id" db:"meeting_id"`
	Title     string     `json:"title" db:"title"`
	Assignee  *string    `json:"assignee" db:"assignee"`
	DueDate   *time.Time `json:"due_date" db:"due_date"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type Decision struct {
	ID        uuid.UUID `json:"id" db:"id"`
	MeetingID uuid.UUID `json:"meeting_id" db:"meeting_id"`
	Title     string    `json:"title" db:"title"`
	Detail    *string   `json:"detail" db:"detail"`
	DecidedBy *string   `json:"decided_by" db:"decided_by"`
	DecidedAt time.Time `json:"decided_at" db:"decided_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
