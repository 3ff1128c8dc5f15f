package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldService_AddFieldAppends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	field, err := env.svc.Field.AddField(ctx, ct.ID, &models.CreateContentFieldRequest{
		Name:      "category",
		FieldType: models.FieldTypeSelect,
		Options:   json.RawMessage(`{"choices":[{"value":"news","label":"News"}]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, field.Order)
	assert.Equal(t, "category", field.DisplayName)

	order := 0
	first, err := env.svc.Field.AddField(ctx, ct.ID, &models.CreateContentFieldRequest{
		Name:      "kicker",
		FieldType: models.FieldTypeText,
		Order:     &order,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Order)
}

func TestFieldService_AddFieldErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	_, err := env.svc.Field.AddField(ctx, uuid.New().String(), &models.CreateContentFieldRequest{Name: "x", FieldType: models.FieldTypeText})
	assert.ErrorIs(t, err, service.ErrContentTypeNotFound)

	_, err = env.svc.Field.AddField(ctx, ct.ID, &models.CreateContentFieldRequest{Name: "1bad", FieldType: models.FieldTypeText})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = env.svc.Field.AddField(ctx, ct.ID, &models.CreateContentFieldRequest{Name: "rel", FieldType: models.FieldTypeRelation, RelatedTypeID: strPtr("nope")})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestFieldService_UpdateFieldPartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)
	titleID := fieldID(ct, "title")

	required := false
	updated, err := env.svc.Field.UpdateField(ctx, ct.ID, titleID, &models.UpdateContentFieldRequest{
		DisplayName: strPtr("Headline"),
		Required:    &required,
	})
	require.NoError(t, err)

	assert.Equal(t, "title", updated.Name)
	assert.Equal(t, "Headline", updated.DisplayName)
	assert.Equal(t, models.FieldTypeText, updated.FieldType)
	assert.False(t, updated.Required)
	assert.Equal(t, 0, updated.Order)

	stored := env.repos.Fields.Fields[titleID]
	assert.Equal(t, "Headline", stored.DisplayName)
}

func TestFieldService_FieldMustBelongToType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	article := env.articleType(t)
	other, err := env.svc.ContentType.Create(ctx, &models.CreateContentTypeRequest{Name: "page"})
	require.NoError(t, err)

	_, err = env.svc.Field.UpdateField(ctx, other.ID, fieldID(article, "title"), &models.UpdateContentFieldRequest{DisplayName: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrFieldNotFound)

	err = env.svc.Field.DeleteField(ctx, other.ID, fieldID(article, "title"))
	assert.ErrorIs(t, err, service.ErrFieldNotFound)
}

func TestFieldService_DeleteFieldDropsValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)
	entry := env.entry(t, ct, &models.CreateEntryRequest{
		FieldValues: []models.FieldValueInput{
			{FieldID: fieldID(ct, "title"), Value: "Hello"},
			{FieldID: fieldID(ct, "views"), Value: 3},
		},
	})

	require.NoError(t, env.svc.Field.DeleteField(ctx, ct.ID, fieldID(ct, "views")))

	loaded, err := env.svc.Entry.Get(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, loaded.FieldValues, 1)
	assert.Equal(t, "Hello", loaded.FieldValues[0].Value)
	assert.Len(t, loaded.ContentType.Fields, 2)
}

func TestFieldService_RejectsDuplicateNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	_, err := env.svc.Field.AddField(ctx, ct.ID, &models.CreateContentFieldRequest{Name: "title", FieldType: models.FieldTypeText})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = env.svc.Field.AddField(ctx, ct.ID, &models.CreateContentFieldRequest{Name: "Title", FieldType: models.FieldTypeText})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Len(t, env.repos.Fields.Fields, 3)

	_, err = env.svc.Field.UpdateField(ctx, ct.ID, fieldID(ct, "views"), &models.UpdateContentFieldRequest{Name: strPtr("TITLE")})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	var inputErr *service.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "duplicate field name", inputErr.Errors[0].Message)

	stored, err := env.svc.ContentType.Get(ctx, ct.ID)
	require.NoError(t, err)
	assert.Equal(t, "views", stored.Fields[1].Name)

	// Renaming a field to its own name in another case is allowed
	renamed, err := env.svc.Field.UpdateField(ctx, ct.ID, fieldID(ct, "title"), &models.UpdateContentFieldRequest{Name: strPtr("Title")})
	require.NoError(t, err)
	assert.Equal(t, "Title", renamed.Name)
}

func TestFieldService_DuplicateNamesAcrossTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.articleType(t)

	page, err := env.svc.ContentType.Create(ctx, &models.CreateContentTypeRequest{Name: "page"})
	require.NoError(t, err)

	_, err = env.svc.Field.AddField(ctx, page.ID, &models.CreateContentFieldRequest{Name: "title", FieldType: models.FieldTypeText})
	assert.NoError(t, err)
}
