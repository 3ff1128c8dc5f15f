package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/content-modeling-api/internal/codec"
	"github.com/content-modeling-api/internal/models"
	"github.com/google/uuid"
)

const maxNameLength = 255

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	fieldNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateContentType validates a content type creation request including its initial fields
func ValidateContentType(req *models.CreateContentTypeRequest) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateName("name", req.Name, true)...)
	if len(req.DisplayName) > maxNameLength {
		errors = append(errors, ValidationError{Field: "display_name", Message: "display_name is too long"})
	}

	seen := make(map[string]bool, len(req.Fields))
	for i := range req.Fields {
		prefix := fmt.Sprintf("fields[%d].", i)
		for _, e := range ValidateField(&req.Fields[i]) {
			e.Field = prefix + e.Field
			errors = append(errors, e)
		}

		name := strings.ToLower(req.Fields[i].Name)
		if name != "" && seen[name] {
			errors = append(errors, ValidationError{Field: prefix + "name", Message: "duplicate field name", Value: req.Fields[i].Name})
		}
		seen[name] = true
	}

	return errors
}

// ValidateContentTypeUpdate validates a partial content type update
func ValidateContentTypeUpdate(req *models.UpdateContentTypeRequest) []ValidationError {
	var errors []ValidationError

	if req.Name != nil {
		errors = append(errors, validateName("name", *req.Name, true)...)
	}
	if req.DisplayName != nil {
		errors = append(errors, validateName("display_name", *req.DisplayName, true)...)
	}

	for i, rename := range req.Fields {
		prefix := fmt.Sprintf("fields[%d].", i)
		if rename.ID == "" {
			errors = append(errors, ValidationError{Field: prefix + "id", Message: "id is required"})
		}
		if rename.Name != nil {
			errors = append(errors, validateFieldName(prefix+"name", *rename.Name)...)
		}
		if rename.DisplayName != nil && strings.TrimSpace(*rename.DisplayName) == "" {
			errors = append(errors, ValidationError{Field: prefix + "display_name", Message: "display_name must not be empty"})
		}
	}

	return errors
}

// ValidateField validates a field definition for creation
func ValidateField(req *models.CreateContentFieldRequest) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateFieldName("name", req.Name)...)

	if req.FieldType == "" {
		errors = append(errors, ValidationError{Field: "field_type", Message: "field_type is required"})
	} else if !models.ValidFieldTypes[req.FieldType] {
		errors = append(errors, ValidationError{Field: "field_type", Message: "unknown field type", Value: req.FieldType})
	}

	errors = append(errors, validateFieldAttributes(req.Options, req.RelatedTypeID, req.Order)...)
	return errors
}

// ValidateFieldUpdate validates a partial field patch
func ValidateFieldUpdate(req *models.UpdateContentFieldRequest) []ValidationError {
	var errors []ValidationError

	if req.Name != nil {
		errors = append(errors, validateFieldName("name", *req.Name)...)
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		errors = append(errors, ValidationError{Field: "display_name", Message: "display_name must not be empty"})
	}
	if req.FieldType != nil && !models.ValidFieldTypes[*req.FieldType] {
		errors = append(errors, ValidationError{Field: "field_type", Message: "unknown field type", Value: *req.FieldType})
	}

	errors = append(errors, validateFieldAttributes(req.Options, req.RelatedTypeID, req.Order)...)
	return errors
}

// ValidateEntry validates an entry creation request
func ValidateEntry(req *models.CreateEntryRequest) []ValidationError {
	var errors []ValidationError

	if req.Status != "" {
		errors = append(errors, validateStatus(req.Status, req.ScheduledAt != nil)...)
	}
	errors = append(errors, validateValueInputs(req.FieldValues)...)
	return errors
}

// ValidateEntryUpdate validates a partial entry update; scheduled reports
// whether the stored entry already carries a scheduled_at
func ValidateEntryUpdate(req *models.UpdateEntryRequest, scheduled bool) []ValidationError {
	var errors []ValidationError

	if req.Status != nil {
		errors = append(errors, validateStatus(*req.Status, scheduled || req.ScheduledAt != nil)...)
	}
	if req.FieldValues != nil {
		errors = append(errors, validateValueInputs(*req.FieldValues)...)
	}
	return errors
}

// ValidateTag validates a tag creation request
func ValidateTag(req *models.CreateTagRequest) []ValidationError {
	return validateName("name", req.Name, true)
}

// ValidateFieldValue checks that value has the shape its field type expects.
// Nil and empty values are accepted; required fields are not enforced here.
func ValidateFieldValue(field *models.ContentField, value interface{}) *ValidationError {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok && s == "" {
		return nil
	}

	invalid := func(msg string) *ValidationError {
		return &ValidationError{Field: field.Name, Message: msg, Value: value}
	}

	switch field.FieldType {
	case models.FieldTypeNumber:
		switch v := value.(type) {
		case int, int64:
		case float64:
			if !isFinite(v) {
				return invalid("must be a finite number")
			}
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return invalid("must be a number")
			}
			if !isFinite(f) {
				return invalid("must be a finite number")
			}
		default:
			return invalid("must be a number")
		}

	case models.FieldTypeBoolean:
		switch v := value.(type) {
		case bool:
		case string:
			if v != "true" && v != "false" {
				return invalid("must be true or false")
			}
		default:
			return invalid("must be true or false")
		}

	case models.FieldTypeDate, models.FieldTypeDateTime:
		s, ok := value.(string)
		if !ok {
			return invalid("must be an ISO 8601 date string")
		}
		if _, err := codec.ParseTime(s); err != nil {
			return invalid("must be an ISO 8601 date string")
		}

	case models.FieldTypeEmail:
		s, ok := value.(string)
		if !ok || !emailRegex.MatchString(s) {
			return invalid("invalid email format")
		}

	case models.FieldTypeURL:
		s, ok := value.(string)
		if !ok || !isValidURL(s) {
			return invalid("must be an absolute http(s) URL")
		}

	case models.FieldTypeRelation, models.FieldTypeMedia:
		s, ok := value.(string)
		if !ok || !isValidUUID(s) {
			return invalid("invalid UUID format")
		}

	case models.FieldTypeText, models.FieldTypeTextarea, models.FieldTypeRichText:
		if _, ok := value.(string); !ok {
			return invalid("must be a string")
		}
	}

	return nil
}

func validateName(field, value string, required bool) []ValidationError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return []ValidationError{{Field: field, Message: field + " is required"}}
		}
		return nil
	}
	if len(value) > maxNameLength {
		return []ValidationError{{Field: field, Message: field + " is too long"}}
	}
	return nil
}

func validateFieldName(field, value string) []ValidationError {
	if value == "" {
		return []ValidationError{{Field: field, Message: "name is required"}}
	}
	if len(value) > maxNameLength {
		return []ValidationError{{Field: field, Message: "name is too long"}}
	}
	if !fieldNameRegex.MatchString(value) {
		return []ValidationError{{
			Field:   field,
			Message: "name must start with a letter or underscore and contain only letters, digits and underscores",
			Value:   value,
		}}
	}
	return nil
}

func validateFieldAttributes(options json.RawMessage, relatedTypeID *string, order *int) []ValidationError {
	var errors []ValidationError

	if len(options) > 0 && !json.Valid(options) {
		errors = append(errors, ValidationError{Field: "options", Message: "options must be valid JSON"})
	}
	if relatedTypeID != nil && !isValidUUID(*relatedTypeID) {
		errors = append(errors, ValidationError{Field: "related_type_id", Message: "invalid UUID format", Value: *relatedTypeID})
	}
	if order != nil && *order < 0 {
		errors = append(errors, ValidationError{Field: "order", Message: "order must not be negative", Value: *order})
	}
	return errors
}

func validateStatus(status models.EntryStatus, hasSchedule bool) []ValidationError {
	if !models.ValidEntryStatuses[status] {
		return []ValidationError{{
			Field:   "status",
			Message: "invalid status, must be one of: DRAFT, PUBLISHED, SCHEDULED, ARCHIVED",
			Value:   status,
		}}
	}
	if status == models.EntryStatusScheduled && !hasSchedule {
		return []ValidationError{{Field: "scheduled_at", Message: "scheduled entries require scheduled_at"}}
	}
	return nil
}

func validateValueInputs(values []models.FieldValueInput) []ValidationError {
	var errors []ValidationError

	seen := make(map[string]bool, len(values))
	for i, v := range values {
		field := fmt.Sprintf("field_values[%d].field_id", i)
		switch {
		case v.FieldID == "":
			errors = append(errors, ValidationError{Field: field, Message: "field_id is required"})
		case !isValidUUID(v.FieldID):
			errors = append(errors, ValidationError{Field: field, Message: "invalid UUID format", Value: v.FieldID})
		case seen[v.FieldID]:
			errors = append(errors, ValidationError{Field: field, Message: "duplicate field_id", Value: v.FieldID})
		}
		seen[v.FieldID] = true
	}
	return errors
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isValidUUID checks if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// isFinite rejects NaN and infinities, which JSON cannot represent
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
