package models

import (
	"encoding/json"
	"time"
)

// FieldType is the enumerated tag describing how a field value is interpreted
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeRichText FieldType = "rich_text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeDate     FieldType = "date"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeEmail    FieldType = "email"
	FieldTypeURL      FieldType = "url"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRelation FieldType = "relation"
	FieldTypeMedia    FieldType = "media"
	FieldTypeJSON     FieldType = "json"
)

// ValidFieldTypes defines allowed field types
var ValidFieldTypes = map[FieldType]bool{
	FieldTypeText:     true,
	FieldTypeTextarea: true,
	FieldTypeRichText: true,
	FieldTypeNumber:   true,
	FieldTypeBoolean:  true,
	FieldTypeDate:     true,
	FieldTypeDateTime: true,
	FieldTypeEmail:    true,
	FieldTypeURL:      true,
	FieldTypeSelect:   true,
	FieldTypeRelation: true,
	FieldTypeMedia:    true,
	FieldTypeJSON:     true,
}

// ContentField is one typed attribute within a content type's schema
type ContentField struct {
	ID            string          `json:"id" db:"id"`
	ContentTypeID string          `json:"content_type_id" db:"content_type_id"`
	Name          string          `json:"name" db:"name"`
	DisplayName   string          `json:"display_name" db:"display_name"`
	FieldType     FieldType       `json:"field_type" db:"field_type"`
	Required      bool            `json:"required" db:"required"`
	Unique        bool            `json:"unique" db:"is_unique"`
	DefaultValue  *string         `json:"default_value,omitempty" db:"default_value"`
	Options       json.RawMessage `json:"options,omitempty" db:"options"` // Opaque, replaced wholesale on update
	RelatedTypeID *string         `json:"related_type_id,omitempty" db:"related_type_id"`
	Order         int             `json:"order" db:"sort_order"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// CreateContentFieldRequest is the payload for adding a field
type CreateContentFieldRequest struct {
	Name          string          `json:"name"`
	DisplayName   string          `json:"display_name"`
	FieldType     FieldType       `json:"field_type"`
	Required      bool            `json:"required"`
	Unique        bool            `json:"unique"`
	DefaultValue  *string         `json:"default_value,omitempty"`
	Options       json.RawMessage `json:"options,omitempty"`
	RelatedTypeID *string         `json:"related_type_id,omitempty"`
	Order         *int            `json:"order,omitempty"` // Defaults to append
}

// UpdateContentFieldRequest is a partial patch; only non-nil attributes are written
type UpdateContentFieldRequest struct {
	Name          *string         `json:"name,omitempty"`
	DisplayName   *string         `json:"display_name,omitempty"`
	FieldType     *FieldType      `json:"field_type,omitempty"`
	Required      *bool           `json:"required,omitempty"`
	Unique        *bool           `json:"unique,omitempty"`
	DefaultValue  *string         `json:"default_value,omitempty"`
	Options       json.RawMessage `json:"options,omitempty"`
	RelatedTypeID *string         `json:"related_type_id,omitempty"`
	Order         *int            `json:"order,omitempty"`
}
