package service_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedExport(t *testing.T, env *testEnv) *models.ContentType {
	t.Helper()
	ct := env.articleType(t)
	for _, title := range []string{"one", "two", "three"} {
		env.entry(t, ct, &models.CreateEntryRequest{
			Slug: strPtr(title),
			FieldValues: []models.FieldValueInput{
				{FieldID: fieldID(ct, "title"), Value: title},
				{FieldID: fieldID(ct, "views"), Value: 7},
			},
		})
	}
	return ct
}

func TestExportService_NDJSON(t *testing.T) {
	env := newTestEnv(t)
	ct := seedExport(t, env)
	w := httptest.NewRecorder()

	require.NoError(t, env.svc.Export.StreamEntries(context.Background(), w, ct.ID, service.FormatNDJSON))

	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)

	var rec struct {
		Slug   string                 `json:"slug"`
		Fields map[string]interface{} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "one", rec.Slug)
	assert.Equal(t, "one", rec.Fields["title"])
	assert.Equal(t, float64(7), rec.Fields["views"])
}

func TestExportService_JSON(t *testing.T) {
	env := newTestEnv(t)
	ct := seedExport(t, env)
	w := httptest.NewRecorder()

	require.NoError(t, env.svc.Export.StreamEntries(context.Background(), w, ct.ID, service.FormatJSON))

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 3)
}

func TestExportService_JSONWithNonFiniteStoredNumber(t *testing.T) {
	env := newTestEnv(t)
	ct := seedExport(t, env)

	// Rows written before numbers were checked for finiteness
	views := fieldID(ct, "views")
	for _, e := range env.repos.Entries.Entries {
		for i := range e.FieldValues {
			if e.FieldValues[i].FieldID == views {
				e.FieldValues[i].Value = "NaN"
			}
		}
	}

	w := httptest.NewRecorder()
	require.NoError(t, env.svc.Export.StreamEntries(context.Background(), w, ct.ID, service.FormatJSON))

	var records []struct {
		Fields map[string]interface{} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "NaN", records[0].Fields["views"])
}

func TestExportService_CSV(t *testing.T) {
	env := newTestEnv(t)
	ct := seedExport(t, env)
	w := httptest.NewRecorder()

	require.NoError(t, env.svc.Export.StreamEntries(context.Background(), w, ct.ID, service.FormatCSV))

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"id", "slug", "status", "published_at", "created_at", "updated_at", "title", "views", "body"}, rows[0])
	assert.Equal(t, "one", rows[1][6])
	assert.Equal(t, "7", rows[1][7])
	assert.Equal(t, "", rows[1][8])
}

func TestExportService_Errors(t *testing.T) {
	env := newTestEnv(t)
	ct := seedExport(t, env)
	ctx := context.Background()

	w := httptest.NewRecorder()
	err := env.svc.Export.StreamEntries(ctx, w, ct.ID, "xml")
	assert.ErrorIs(t, err, service.ErrUnsupportedFormat)
	assert.Zero(t, w.Body.Len())

	err = env.svc.Export.StreamEntries(ctx, w, uuid.New().String(), service.FormatCSV)
	assert.ErrorIs(t, err, service.ErrContentTypeNotFound)
	assert.Zero(t, w.Body.Len())
}

func TestExportService_GetCount(t *testing.T) {
	env := newTestEnv(t)
	seedExport(t, env)
	ctx := context.Background()

	n, err := env.svc.Export.GetCount(ctx, "entries")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = env.svc.Export.GetCount(ctx, "content_types")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = env.svc.Export.GetCount(ctx, "users")
	assert.Error(t, err)
}
