package models

import (
	"time"
)

// EntryStatus represents the publishing state of an entry
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "DRAFT"
	EntryStatusPublished EntryStatus = "PUBLISHED"
	EntryStatusScheduled EntryStatus = "SCHEDULED"
	EntryStatusArchived  EntryStatus = "ARCHIVED"
)

// ValidEntryStatuses defines allowed entry statuses
var ValidEntryStatuses = map[EntryStatus]bool{
	EntryStatusDraft:     true,
	EntryStatusPublished: true,
	EntryStatusScheduled: true,
	EntryStatusArchived:  true,
}

// ContentEntry is one instance of content conforming to a content type
type ContentEntry struct {
	ID            string              `json:"id" db:"id"`
	ContentTypeID string              `json:"content_type_id" db:"content_type_id"`
	Slug          *string             `json:"slug,omitempty" db:"slug"` // Unique within ContentTypeID
	Status        EntryStatus         `json:"status" db:"status"`
	ScheduledAt   *time.Time          `json:"scheduled_at,omitempty" db:"scheduled_at"`
	PublishedAt   *time.Time          `json:"published_at,omitempty" db:"published_at"`
	FieldValues   []ContentFieldValue `json:"field_values" db:"-"`
	Tags          []Tag               `json:"tags,omitempty" db:"-"`
	ContentType   *ContentType        `json:"content_type,omitempty" db:"-"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
}

// ContentFieldValue is the textually-encoded value of one field for one entry
type ContentFieldValue struct {
	ID      string        `json:"id" db:"id"`
	EntryID string        `json:"entry_id" db:"entry_id"`
	FieldID string        `json:"field_id" db:"field_id"`
	Value   string        `json:"value" db:"value"`
	Field   *ContentField `json:"field,omitempty" db:"-"` // Joined on read
}

// FieldValueInput is a single field value supplied by a caller before encoding
type FieldValueInput struct {
	FieldID string      `json:"field_id"`
	Value   interface{} `json:"value"`
}

// CreateEntryRequest is the payload for creating an entry
type CreateEntryRequest struct {
	Slug        *string           `json:"slug,omitempty"`
	Status      EntryStatus       `json:"status,omitempty"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
	FieldValues []FieldValueInput `json:"field_values,omitempty"`
}

// UpdateEntryRequest is a partial update. A non-nil FieldValues replaces the
// entire stored value set, including when it is empty.
type UpdateEntryRequest struct {
	Slug        *string            `json:"slug,omitempty"`
	Status      *EntryStatus       `json:"status,omitempty"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
	FieldValues *[]FieldValueInput `json:"field_values,omitempty"`
}

// ListEntriesRequest selects one page of entries
type ListEntriesRequest struct {
	Page     int         `form:"page"`
	PageSize int         `form:"page_size"`
	Status   EntryStatus `form:"status"`
}

// EntryPage is one page of entries with pagination metadata
type EntryPage struct {
	Entries  []*ContentEntry `json:"entries"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Pages    int             `json:"pages"`
}

// PageCount returns ceil(total/pageSize)
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
