// Package format renders stored field values for preview and public pages.
package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/content-modeling-api/internal/codec"
	"github.com/content-modeling-api/internal/models"
)

// EmptyDisplay is shown for fields without a stored value
const EmptyDisplay = "-"

// FormattedValue is the presentation form of one field value
type FormattedValue struct {
	Field        string `json:"field"`
	Label        string `json:"label"`
	DisplayValue string `json:"display_value"`
	IsLink       bool   `json:"is_link"`
	LinkURL      string `json:"link_url,omitempty"`
	IsHTML       bool   `json:"is_html"`
}

// Formatter interprets raw field text according to the field's type tag
type Formatter struct {
	// MediaURL builds the download URL for a media field value (a media ID)
	MediaURL func(id string) string
}

// New creates a formatter that links media values beneath mediaPrefix
func New(mediaPrefix string) *Formatter {
	prefix := strings.TrimRight(mediaPrefix, "/")
	return &Formatter{
		MediaURL: func(id string) string {
			return prefix + "/" + id + "/file"
		},
	}
}

var fieldTypeLabels = map[models.FieldType]string{
	models.FieldTypeText:     "Text",
	models.FieldTypeTextarea: "Long Text",
	models.FieldTypeRichText: "Rich Text",
	models.FieldTypeNumber:   "Number",
	models.FieldTypeBoolean:  "Boolean",
	models.FieldTypeDate:     "Date",
	models.FieldTypeDateTime: "Date & Time",
	models.FieldTypeEmail:    "Email",
	models.FieldTypeURL:      "URL",
	models.FieldTypeSelect:   "Select",
	models.FieldTypeRelation: "Relation",
	models.FieldTypeMedia:    "Media",
	models.FieldTypeJSON:     "JSON",
}

// FieldTypeLabel returns the human label for a field type
func FieldTypeLabel(ft models.FieldType) string {
	if label, ok := fieldTypeLabels[ft]; ok {
		return label
	}
	return string(ft)
}

// FormatFieldValue renders raw according to field.FieldType
func (f *Formatter) FormatFieldValue(field *models.ContentField, raw string) FormattedValue {
	out := FormattedValue{
		Field:        field.Name,
		Label:        field.DisplayName,
		DisplayValue: raw,
	}
	if out.Label == "" {
		out.Label = field.Name
	}
	if raw == "" {
		out.DisplayValue = EmptyDisplay
		return out
	}

	switch field.FieldType {
	case models.FieldTypeRichText:
		out.IsHTML = true

	case models.FieldTypeURL:
		out.IsLink = true
		out.LinkURL = raw

	case models.FieldTypeEmail:
		out.IsLink = true
		out.LinkURL = "mailto:" + raw

	case models.FieldTypeMedia:
		out.IsLink = true
		if f.MediaURL != nil {
			out.LinkURL = f.MediaURL(raw)
		} else {
			out.LinkURL = raw
		}

	case models.FieldTypeBoolean:
		if b, err := strconv.ParseBool(raw); err == nil {
			out.DisplayValue = "No"
			if b {
				out.DisplayValue = "Yes"
			}
		}

	case models.FieldTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			out.DisplayValue = strconv.FormatFloat(n, 'f', -1, 64)
		}

	case models.FieldTypeDate:
		if t, err := codec.ParseTime(raw); err == nil {
			out.DisplayValue = t.Format("Jan 2, 2006")
		}

	case models.FieldTypeDateTime:
		if t, err := codec.ParseTime(raw); err == nil {
			out.DisplayValue = t.UTC().Format("Jan 2, 2006 15:04 UTC")
		}

	case models.FieldTypeSelect:
		out.DisplayValue = selectDisplay(field.Options, raw)

	case models.FieldTypeJSON:
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			if pretty, err := json.MarshalIndent(v, "", "  "); err == nil {
				out.DisplayValue = string(pretty)
			}
		}
	}

	return out
}

// FormatEntry renders every schema field of an entry in field order
func (f *Formatter) FormatEntry(ct *models.ContentType, entry *models.ContentEntry) []FormattedValue {
	raw := make(map[string]string, len(entry.FieldValues))
	for _, v := range entry.FieldValues {
		raw[v.FieldID] = v.Value
	}

	out := make([]FormattedValue, 0, len(ct.Fields))
	for i := range ct.Fields {
		field := &ct.Fields[i]
		value, ok := raw[field.ID]
		if !ok && field.DefaultValue != nil {
			value = *field.DefaultValue
		}
		out = append(out, f.FormatFieldValue(field, value))
	}
	return out
}

type choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// selectDisplay maps stored choice values to their labels from the options blob.
// Options carry {"choices": [...]} where each choice is a string or {value,label}.
func selectDisplay(options json.RawMessage, raw string) string {
	labels := make(map[string]string)
	if len(options) > 0 {
		var opts struct {
			Choices []json.RawMessage `json:"choices"`
		}
		if err := json.Unmarshal(options, &opts); err == nil {
			for _, c := range opts.Choices {
				var s string
				if err := json.Unmarshal(c, &s); err == nil {
					labels[s] = s
					continue
				}
				var obj choice
				if err := json.Unmarshal(c, &obj); err == nil && obj.Value != "" {
					labels[obj.Value] = obj.Label
				}
			}
		}
	}

	label := func(v string) string {
		if l, ok := labels[v]; ok && l != "" {
			return l
		}
		return v
	}

	decoded, err := codec.Decode(raw, models.FieldTypeSelect)
	if err != nil {
		return raw
	}
	switch v := decoded.(type) {
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, label(fmt.Sprint(item)))
		}
		return strings.Join(parts, ", ")
	case string:
		return label(v)
	default:
		return label(fmt.Sprint(v))
	}
}
