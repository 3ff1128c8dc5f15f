package service_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryService_CreateEncodesValues(t *testing.T) {
	env := newTestEnv(t)
	ct := env.articleType(t)

	entry := env.entry(t, ct, &models.CreateEntryRequest{
		Slug: strPtr("Hello World"),
		FieldValues: []models.FieldValueInput{
			{FieldID: fieldID(ct, "body"), Value: "<p>Hi</p>"},
			{FieldID: fieldID(ct, "title"), Value: "Hello"},
			{FieldID: fieldID(ct, "views"), Value: 42.0},
		},
	})

	assert.Equal(t, models.EntryStatusDraft, entry.Status)
	assert.Nil(t, entry.PublishedAt)
	require.NotNil(t, entry.Slug)
	assert.Equal(t, "hello-world", *entry.Slug)

	// Values come back in field order, joined to their definitions
	require.Len(t, entry.FieldValues, 3)
	assert.Equal(t, "title", entry.FieldValues[0].Field.Name)
	assert.Equal(t, "42", entry.FieldValues[1].Value)
	assert.Equal(t, "<p>Hi</p>", entry.FieldValues[2].Value)
}

func TestEntryService_CreatePublishedSetsTimestamp(t *testing.T) {
	env := newTestEnv(t)
	ct := env.articleType(t)

	entry := env.entry(t, ct, &models.CreateEntryRequest{Status: models.EntryStatusPublished})
	require.NotNil(t, entry.PublishedAt)
	assert.Nil(t, entry.Slug)
}

func TestEntryService_SlugUniquePerType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	article := env.articleType(t)
	page, err := env.svc.ContentType.Create(ctx, &models.CreateContentTypeRequest{Name: "page"})
	require.NoError(t, err)

	a := env.entry(t, article, &models.CreateEntryRequest{Slug: strPtr("intro")})
	b := env.entry(t, article, &models.CreateEntryRequest{Slug: strPtr("intro")})
	c := env.entry(t, page, &models.CreateEntryRequest{Slug: strPtr("intro")})

	assert.Equal(t, "intro", *a.Slug)
	assert.Equal(t, "intro-1", *b.Slug)
	assert.Equal(t, "intro", *c.Slug)
}

func TestEntryService_CreateRejectsBadValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	tests := []struct {
		name   string
		values []models.FieldValueInput
	}{
		{"foreign field", []models.FieldValueInput{{FieldID: uuid.New().String(), Value: "x"}}},
		{"not a number", []models.FieldValueInput{{FieldID: fieldID(ct, "views"), Value: "abc"}}},
		{"NaN", []models.FieldValueInput{{FieldID: fieldID(ct, "views"), Value: "NaN"}}},
		{"infinity", []models.FieldValueInput{{FieldID: fieldID(ct, "views"), Value: "-Infinity"}}},
		{"non-finite float", []models.FieldValueInput{{FieldID: fieldID(ct, "views"), Value: math.Inf(1)}}},
		{"duplicate field", []models.FieldValueInput{
			{FieldID: fieldID(ct, "title"), Value: "a"},
			{FieldID: fieldID(ct, "title"), Value: "b"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Entry.Create(ctx, ct.ID, &models.CreateEntryRequest{FieldValues: tt.values})
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
	assert.Empty(t, env.repos.Entries.Entries)

	_, err := env.svc.Entry.Create(ctx, ct.ID, &models.CreateEntryRequest{Status: models.EntryStatusScheduled})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = env.svc.Entry.Create(ctx, uuid.New().String(), &models.CreateEntryRequest{})
	assert.ErrorIs(t, err, service.ErrContentTypeNotFound)
}

func TestEntryService_ListPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	for i := 0; i < 25; i++ {
		env.entry(t, ct, &models.CreateEntryRequest{
			FieldValues: []models.FieldValueInput{{FieldID: fieldID(ct, "title"), Value: fmt.Sprintf("entry %d", i)}},
		})
	}

	page, err := env.svc.Entry.List(ctx, ct.ID, models.ListEntriesRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Entries, 10)
	// Newest first
	assert.Equal(t, "entry 24", page.Entries[0].FieldValues[0].Value)

	last, err := env.svc.Entry.List(ctx, ct.ID, models.ListEntriesRequest{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, last.Entries, 5)

	beyond, err := env.svc.Entry.List(ctx, ct.ID, models.ListEntriesRequest{Page: 4, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Entries)
	assert.Equal(t, 25, beyond.Total)

	// Zero values fall back to defaults and oversize pages are clamped
	defaults, err := env.svc.Entry.List(ctx, ct.ID, models.ListEntriesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, defaults.Page)
	assert.Equal(t, 10, defaults.PageSize)

	clamped, err := env.svc.Entry.List(ctx, ct.ID, models.ListEntriesRequest{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 50, clamped.PageSize)
	assert.Len(t, clamped.Entries, 25)
}

func TestEntryService_ListStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	env.entry(t, ct, &models.CreateEntryRequest{Status: models.EntryStatusPublished})
	env.entry(t, ct, &models.CreateEntryRequest{})
	env.entry(t, ct, &models.CreateEntryRequest{Status: models.EntryStatusPublished})

	page, err := env.svc.Entry.List(ctx, ct.ID, models.ListEntriesRequest{Status: models.EntryStatusPublished})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	for _, e := range page.Entries {
		assert.Equal(t, models.EntryStatusPublished, e.Status)
	}

	_, err = env.svc.Entry.List(ctx, ct.ID, models.ListEntriesRequest{Status: "LIVE"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestEntryService_UpdateReplacesValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	entry := env.entry(t, ct, &models.CreateEntryRequest{
		FieldValues: []models.FieldValueInput{
			{FieldID: fieldID(ct, "title"), Value: "Hello"},
			{FieldID: fieldID(ct, "views"), Value: 1},
		},
	})

	replacement := []models.FieldValueInput{{FieldID: fieldID(ct, "body"), Value: "<p>New</p>"}}
	updated, err := env.svc.Entry.Update(ctx, entry.ID, &models.UpdateEntryRequest{FieldValues: &replacement})
	require.NoError(t, err)
	require.Len(t, updated.FieldValues, 1)
	assert.Equal(t, "body", updated.FieldValues[0].Field.Name)

	values, err := env.repos.Entries.GetFieldValues(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, values, 1)

	// Omitted values leave the stored set alone
	status := models.EntryStatusPublished
	updated, err = env.svc.Entry.Update(ctx, entry.ID, &models.UpdateEntryRequest{Status: &status})
	require.NoError(t, err)
	assert.NotNil(t, updated.PublishedAt)
	assert.Len(t, updated.FieldValues, 1)

	// An empty list clears every value
	empty := []models.FieldValueInput{}
	updated, err = env.svc.Entry.Update(ctx, entry.ID, &models.UpdateEntryRequest{FieldValues: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.FieldValues)
}

func TestEntryService_UpdateSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)

	env.entry(t, ct, &models.CreateEntryRequest{Slug: strPtr("taken")})
	entry := env.entry(t, ct, &models.CreateEntryRequest{Slug: strPtr("mine")})

	same, err := env.svc.Entry.Update(ctx, entry.ID, &models.UpdateEntryRequest{Slug: strPtr("mine")})
	require.NoError(t, err)
	assert.Equal(t, "mine", *same.Slug)

	moved, err := env.svc.Entry.Update(ctx, entry.ID, &models.UpdateEntryRequest{Slug: strPtr("taken")})
	require.NoError(t, err)
	assert.Equal(t, "taken-1", *moved.Slug)

	cleared, err := env.svc.Entry.Update(ctx, entry.ID, &models.UpdateEntryRequest{Slug: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Slug)
}

func TestEntryService_UpdateScheduleRequiresTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)
	entry := env.entry(t, ct, &models.CreateEntryRequest{})

	status := models.EntryStatusScheduled
	_, err := env.svc.Entry.Update(ctx, entry.ID, &models.UpdateEntryRequest{Status: &status})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	at := time.Now().Add(time.Hour)
	updated, err := env.svc.Entry.Update(ctx, entry.ID, &models.UpdateEntryRequest{Status: &status, ScheduledAt: &at})
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusScheduled, updated.Status)
	assert.Nil(t, updated.PublishedAt)
}

func TestEntryService_GetAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct := env.articleType(t)
	entry := env.entry(t, ct, &models.CreateEntryRequest{})

	loaded, err := env.svc.Entry.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, ct.ID, loaded.ContentType.ID)
	assert.NotNil(t, loaded.Tags)

	require.NoError(t, env.svc.Entry.Delete(ctx, entry.ID))
	_, err = env.svc.Entry.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, service.ErrEntryNotFound)
	assert.ErrorIs(t, env.svc.Entry.Delete(ctx, entry.ID), service.ErrEntryNotFound)
	assert.ErrorIs(t, env.svc.Entry.Delete(ctx, "bogus"), service.ErrEntryNotFound)
}
