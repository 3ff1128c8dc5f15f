package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/service"
	"github.com/content-modeling-api/internal/slug"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeService_CreateUniqueSlugs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var slugs []string
	for i := 0; i < 3; i++ {
		ct, err := env.svc.ContentType.Create(ctx, &models.CreateContentTypeRequest{Name: "Hello"})
		require.NoError(t, err)
		slugs = append(slugs, ct.Slug)
	}

	assert.Equal(t, []string{"hello", "hello-1", "hello-2"}, slugs)
}

func TestContentTypeService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)

	ct, err := env.svc.ContentType.Create(context.Background(), &models.CreateContentTypeRequest{Name: "???"})
	require.NoError(t, err)

	assert.Equal(t, "???", ct.DisplayName)
	assert.Equal(t, "untitled", ct.Slug)
	assert.Empty(t, ct.Fields)
}

func TestContentTypeService_CreateRetriesOnSlugRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	types := env.repos.Types
	types.CreateHook = func(ctx context.Context, ct *models.ContentType) error {
		// A concurrent writer claims the resolved slug first
		types.CreateHook = nil
		types.Types["rival"] = &models.ContentType{ID: "rival", Name: "rival", Slug: ct.Slug}
		return nil
	}

	ct, err := env.svc.ContentType.Create(ctx, &models.CreateContentTypeRequest{Name: "Hello"})
	require.NoError(t, err)

	assert.Equal(t, "hello-1", ct.Slug)
	assert.Equal(t, 2, types.CreateCalls)
}

func TestContentTypeService_CreateFieldsOrdered(t *testing.T) {
	env := newTestEnv(t)
	ct := env.articleType(t)

	loaded, err := env.svc.ContentType.Get(context.Background(), ct.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Fields, 3)

	for i, name := range []string{"title", "views", "body"} {
		assert.Equal(t, name, loaded.Fields[i].Name)
		assert.Equal(t, i, loaded.Fields[i].Order)
	}
	assert.Equal(t, "views", loaded.Fields[1].DisplayName)
}

func TestContentTypeService_CreateInvalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.ContentType.Create(context.Background(), &models.CreateContentTypeRequest{
		Fields: []models.CreateContentFieldRequest{
			{Name: "title", FieldType: models.FieldTypeText},
			{Name: "Title", FieldType: "colour"},
		},
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	var inputErr *service.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.GreaterOrEqual(t, len(inputErr.Errors), 3)
	assert.Empty(t, env.repos.Types.Types)
}

func TestContentTypeService_UpdateRegeneratesSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	updated, err := env.svc.ContentType.Update(ctx, ct.ID, &models.UpdateContentTypeRequest{
		DisplayName: strPtr("Blog Post"),
		Fields: []models.FieldRename{
			{ID: fieldID(ct, "title"), Name: strPtr("headline")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "blog-post", updated.Slug)
	assert.Equal(t, "headline", updated.Fields[0].Name)

	byslug, err := env.svc.ContentType.GetBySlug(ctx, "blog-post")
	require.NoError(t, err)
	assert.Equal(t, ct.ID, byslug.ID)
	assert.Equal(t, "headline", byslug.Fields[0].Name)

	// Same display name keeps the slug
	again, err := env.svc.ContentType.Update(ctx, ct.ID, &models.UpdateContentTypeRequest{DisplayName: strPtr("Blog Post")})
	require.NoError(t, err)
	assert.Equal(t, "blog-post", again.Slug)
}

func TestContentTypeService_UpdateUnknownField(t *testing.T) {
	env := newTestEnv(t)
	ct := env.articleType(t)

	_, err := env.svc.ContentType.Update(context.Background(), ct.ID, &models.UpdateContentTypeRequest{
		Name:   strPtr("renamed"),
		Fields: []models.FieldRename{{ID: uuid.New().String(), Name: strPtr("x")}},
	})
	require.ErrorIs(t, err, service.ErrFieldNotFound)

	stored, err := env.svc.ContentType.Get(context.Background(), ct.ID)
	require.NoError(t, err)
	assert.Equal(t, "article", stored.Name)
}

func TestContentTypeService_GetNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ContentType.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = env.svc.ContentType.Get(ctx, uuid.New().String())
	assert.ErrorIs(t, err, service.ErrContentTypeNotFound)

	_, err = env.svc.ContentType.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrContentTypeNotFound)
}

func TestContentTypeService_ListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)
	env.entry(t, ct, &models.CreateEntryRequest{})
	env.entry(t, ct, &models.CreateEntryRequest{})

	list, err := env.svc.ContentType.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].EntryCount)

	require.NoError(t, env.svc.ContentType.Delete(ctx, ct.ID))
	assert.Empty(t, env.repos.Entries.Entries)
	assert.Empty(t, env.repos.Fields.Fields)

	assert.ErrorIs(t, env.svc.ContentType.Delete(ctx, ct.ID), service.ErrContentTypeNotFound)
}

func TestContentTypeService_UpdateRejectsDuplicateRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	_, err := env.svc.ContentType.Update(ctx, ct.ID, &models.UpdateContentTypeRequest{
		Name:   strPtr("renamed"),
		Fields: []models.FieldRename{{ID: fieldID(ct, "views"), Name: strPtr("Title")}},
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	stored, err := env.svc.ContentType.Get(ctx, ct.ID)
	require.NoError(t, err)
	assert.Equal(t, "article", stored.Name)
	assert.Equal(t, "views", stored.Fields[1].Name)

	// Renames checked against the final names let two fields trade places
	_, err = env.svc.ContentType.Update(ctx, ct.ID, &models.UpdateContentTypeRequest{
		Fields: []models.FieldRename{
			{ID: fieldID(ct, "title"), Name: strPtr("headline")},
			{ID: fieldID(ct, "body"), Name: strPtr("title")},
		},
	})
	require.NoError(t, err)

	stored, err = env.svc.ContentType.Get(ctx, ct.ID)
	require.NoError(t, err)
	assert.Equal(t, "headline", stored.Fields[0].Name)
	assert.Equal(t, "title", stored.Fields[2].Name)
}

func TestContentTypeService_UpdateFailureKeepsFieldNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	env.repos.Types.UpdateHook = func(ctx context.Context, ct *models.ContentType) error {
		return fmt.Errorf("%w: content_types_slug_key", slug.ErrConflict)
	}

	_, err := env.svc.ContentType.Update(ctx, ct.ID, &models.UpdateContentTypeRequest{
		DisplayName: strPtr("Blog Post"),
		Fields:      []models.FieldRename{{ID: fieldID(ct, "title"), Name: strPtr("headline")}},
	})
	require.ErrorIs(t, err, slug.ErrConflict)

	env.repos.Types.UpdateHook = nil
	stored, err := env.svc.ContentType.Get(ctx, ct.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", stored.Fields[0].Name)
	assert.Equal(t, "article", stored.Slug)
}

func TestContentTypeService_UpdateDeletedConcurrently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	env.repos.Types.UpdateHook = func(ctx context.Context, c *models.ContentType) error {
		_, err := env.repos.Types.Delete(ctx, c.ID)
		return err
	}

	_, err := env.svc.ContentType.Update(ctx, ct.ID, &models.UpdateContentTypeRequest{Name: strPtr("renamed")})
	assert.ErrorIs(t, err, service.ErrContentTypeNotFound)

	other, err := env.svc.ContentType.Create(ctx, &models.CreateContentTypeRequest{Name: "page"})
	require.NoError(t, err)
	_, err = env.svc.ContentType.Update(ctx, other.ID, &models.UpdateContentTypeRequest{DisplayName: strPtr("Landing Page")})
	assert.ErrorIs(t, err, service.ErrContentTypeNotFound)
}
