package models

import (
	"time"
)

// Tag labels entries across content types
type Tag struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateTagRequest is the payload for creating a tag
type CreateTagRequest struct {
	Name string `json:"name"`
}
