package models

import (
	"time"
)

// ContentType is a user-defined schema describing a kind of content
type ContentType struct {
	ID          string         `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	DisplayName string         `json:"display_name" db:"display_name"`
	Slug        string         `json:"slug" db:"slug"`
	Description *string        `json:"description,omitempty" db:"description"`
	Fields      []ContentField `json:"fields" db:"-"`
	EntryCount  int            `json:"entry_count" db:"-"` // Derived, populated by List
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// FieldByID returns the field with the given ID, or nil
func (ct *ContentType) FieldByID(id string) *ContentField {
	for i := range ct.Fields {
		if ct.Fields[i].ID == id {
			return &ct.Fields[i]
		}
	}
	return nil
}

// CreateContentTypeRequest is the payload for creating a content type
type CreateContentTypeRequest struct {
	Name        string                      `json:"name"`
	DisplayName string                      `json:"display_name"`
	Description *string                     `json:"description,omitempty"`
	Fields      []CreateContentFieldRequest `json:"fields,omitempty"`
}

// UpdateContentTypeRequest is a partial update; nil pointers are left untouched
type UpdateContentTypeRequest struct {
	Name        *string       `json:"name,omitempty"`
	DisplayName *string       `json:"display_name,omitempty"`
	Description *string       `json:"description,omitempty"`
	Fields      []FieldRename `json:"fields,omitempty"`
}

// FieldRename renames one existing field as part of a content type update
type FieldRename struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}
