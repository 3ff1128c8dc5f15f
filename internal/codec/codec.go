// Package codec converts field values to and from their textual storage form.
//
// Strings are stored verbatim and every other value is JSON-encoded. The
// stored text carries no type information of its own, so decoding relies on
// the field type from the schema.
package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/content-modeling-api/internal/models"
)

// DateLayout is the layout accepted for date fields without a time component
const DateLayout = "2006-01-02"

// Encode returns the storage text for v
func Encode(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.RawMessage:
		return string(val), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode field value: %w", err)
	}
	return string(data), nil
}

// Decode interprets raw according to the field type.
//
// number yields float64, boolean yields bool, date and datetime yield
// time.Time, json yields the decoded JSON value, select yields the decoded
// JSON value when raw is JSON and the raw string otherwise. All remaining
// types yield raw unchanged.
func Decode(raw string, fieldType models.FieldType) (interface{}, error) {
	switch fieldType {
	case models.FieldTypeNumber:
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", raw, err)
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("invalid number %q: not finite", raw)
		}
		return n, nil

	case models.FieldTypeBoolean:
		if raw == "" {
			return nil, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q: %w", raw, err)
		}
		return b, nil

	case models.FieldTypeDate, models.FieldTypeDateTime:
		if raw == "" {
			return nil, nil
		}
		return ParseTime(raw)

	case models.FieldTypeJSON:
		if raw == "" {
			return nil, nil
		}
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("invalid json value: %w", err)
		}
		return v, nil

	case models.FieldTypeSelect:
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v, nil
		}
		return raw, nil

	default:
		return raw, nil
	}
}

// ParseTime accepts a JSON-quoted timestamp, RFC 3339 or a bare date
func ParseTime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}

// DecodeValues maps field values to decoded values keyed by field name.
// Values whose field is unknown or fails to decode fall back to the raw text.
func DecodeValues(ct *models.ContentType, values []models.ContentFieldValue) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for _, v := range values {
		field := v.Field
		if field == nil && ct != nil {
			field = ct.FieldByID(v.FieldID)
		}
		if field == nil {
			out[v.FieldID] = v.Value
			continue
		}

		decoded, err := Decode(v.Value, field.FieldType)
		if err != nil {
			decoded = v.Value
		}
		out[field.Name] = decoded
	}
	return out
}
