package format

import (
	"encoding/json"
	"testing"

	"github.com/content-modeling-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatFieldValue(t *testing.T) {
	f := New("/v1/media/")

	tests := []struct {
		name    string
		field   models.ContentField
		raw     string
		display string
		isLink  bool
		linkURL string
		isHTML  bool
	}{
		{name: "plain text", field: models.ContentField{Name: "title", FieldType: models.FieldTypeText}, raw: "Hello", display: "Hello"},
		{name: "rich text is html", field: models.ContentField{Name: "body", FieldType: models.FieldTypeRichText}, raw: "<p>Hi</p>", display: "<p>Hi</p>", isHTML: true},
		{name: "url is link", field: models.ContentField{Name: "site", FieldType: models.FieldTypeURL}, raw: "https://example.com", display: "https://example.com", isLink: true, linkURL: "https://example.com"},
		{name: "email is mailto", field: models.ContentField{Name: "contact", FieldType: models.FieldTypeEmail}, raw: "a@b.co", display: "a@b.co", isLink: true, linkURL: "mailto:a@b.co"},
		{name: "media links to file", field: models.ContentField{Name: "hero", FieldType: models.FieldTypeMedia}, raw: "m-1", display: "m-1", isLink: true, linkURL: "/v1/media/m-1/file"},
		{name: "boolean yes", field: models.ContentField{Name: "featured", FieldType: models.FieldTypeBoolean}, raw: "true", display: "Yes"},
		{name: "boolean no", field: models.ContentField{Name: "featured", FieldType: models.FieldTypeBoolean}, raw: "false", display: "No"},
		{name: "number", field: models.ContentField{Name: "price", FieldType: models.FieldTypeNumber}, raw: "10.50", display: "10.5"},
		{name: "date", field: models.ContentField{Name: "day", FieldType: models.FieldTypeDate}, raw: "2024-07-04", display: "Jul 4, 2024"},
		{name: "quoted datetime", field: models.ContentField{Name: "at", FieldType: models.FieldTypeDateTime}, raw: `"2024-07-04T09:05:00Z"`, display: "Jul 4, 2024 09:05 UTC"},
		{name: "empty value", field: models.ContentField{Name: "title", FieldType: models.FieldTypeText}, raw: "", display: EmptyDisplay},
		{name: "unparseable number kept raw", field: models.ContentField{Name: "price", FieldType: models.FieldTypeNumber}, raw: "n/a", display: "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.FormatFieldValue(&tt.field, tt.raw)
			assert.Equal(t, tt.display, got.DisplayValue)
			assert.Equal(t, tt.isLink, got.IsLink)
			assert.Equal(t, tt.linkURL, got.LinkURL)
			assert.Equal(t, tt.isHTML, got.IsHTML)
		})
	}
}

func TestFormatFieldValue_SelectLabels(t *testing.T) {
	f := New("/media")
	field := &models.ContentField{
		Name:      "color",
		FieldType: models.FieldTypeSelect,
		Options:   json.RawMessage(`{"choices":[{"value":"r","label":"Red"},{"value":"b","label":"Blue"},"green"]}`),
	}

	assert.Equal(t, "Red", f.FormatFieldValue(field, "r").DisplayValue)
	assert.Equal(t, "Red, Blue, green", f.FormatFieldValue(field, `["r","b","green"]`).DisplayValue)
	assert.Equal(t, "purple", f.FormatFieldValue(field, "purple").DisplayValue)
}

func TestFormatEntry_UsesDefaults(t *testing.T) {
	f := New("/media")
	def := "Untitled"
	ct := &models.ContentType{
		Fields: []models.ContentField{
			{ID: "f1", Name: "title", DisplayName: "Title", FieldType: models.FieldTypeText, DefaultValue: &def},
			{ID: "f2", Name: "body", FieldType: models.FieldTypeRichText},
		},
	}
	entry := &models.ContentEntry{
		FieldValues: []models.ContentFieldValue{{FieldID: "f2", Value: "<p>x</p>"}},
	}

	out := f.FormatEntry(ct, entry)
	if assert.Len(t, out, 2) {
		assert.Equal(t, "Untitled", out[0].DisplayValue)
		assert.Equal(t, "Title", out[0].Label)
		assert.Equal(t, "body", out[1].Label)
		assert.True(t, out[1].IsHTML)
	}
}

func TestFieldTypeLabel(t *testing.T) {
	assert.Equal(t, "Rich Text", FieldTypeLabel(models.FieldTypeRichText))
	assert.Equal(t, "Date & Time", FieldTypeLabel(models.FieldTypeDateTime))
	assert.Equal(t, "custom", FieldTypeLabel(models.FieldType("custom")))

	for ft := range models.ValidFieldTypes {
		assert.NotEqual(t, string(ft), FieldTypeLabel(ft), "every built-in type has a label")
	}
}
