package models

import (
	"time"
)

// Media is an uploaded asset whose bytes live in the blob store
type Media struct {
	ID         string    `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	MimeType   string    `json:"mime_type" db:"mime_type"`
	SizeBytes  int64     `json:"size_bytes" db:"size_bytes"`
	StorageKey string    `json:"-" db:"storage_key"`
	AltText    *string   `json:"alt_text,omitempty" db:"alt_text"`
	URL        string    `json:"url" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// MediaPage is one page of media items
type MediaPage struct {
	Items    []*Media `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Pages    int      `json:"pages"`
}
