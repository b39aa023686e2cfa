package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ArchiveCategoryJournal = "JOURNAL"
	ArchiveCategoryNotice  = "NOTICE"
	ArchiveCategoryOther   = "OTHER"
)

// Archive is a stored society publication or document. Tags are free-form
// labels used for simple filtering.
type Archive struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	SocietyID   uuid.UUID  `json:"society_id" db:"society_id"`
	Category    string     `json:"category" db:"category"`
	Title       string     `json:"title" db:"title"`
	IssueNo     *string    `json:"issue_no" db:"issue_no"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	FileURL     string     `json:"file_url" db:"file_url"`
	Tags        []string   `json:"tags" db:"tags"`
	Note        *string    `json:"note" db:"note"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ArchiveFilters narrows archive listings; Query matches title or tags.
type ArchiveFilters struct {
	Query    string
	Category string
	IssueNo  string
}
