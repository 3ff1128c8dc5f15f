package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/content-modeling-api/internal/bulk"
	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBulk(t *testing.T, env *testEnv, n int) (*models.ContentType, []string) {
	t.Helper()
	ct := env.articleType(t)
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, env.entry(t, ct, &models.CreateEntryRequest{}).ID)
	}
	return ct, ids
}

func TestBulkService_Actions(t *testing.T) {
	env := newTestEnv(t)

	actions := env.svc.Bulk.Actions()
	require.Len(t, actions, 4)
	assert.Equal(t, bulk.ActionPublish, actions[0].ID)
	assert.True(t, actions[3].RequiresConfirmation)
}

func TestBulkService_PublishRunsImmediately(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct, ids := seedBulk(t, env, 3)

	result, err := env.svc.Bulk.Execute(ctx, ct.ID, &service.BulkRequest{Action: bulk.ActionPublish, IDs: append(ids, ids[0])})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, ids, result.Processed)
	assert.Empty(t, result.FailedID)

	for _, id := range ids {
		e, _ := env.repos.Entries.GetByID(ctx, id)
		assert.Equal(t, models.EntryStatusPublished, e.Status)
		assert.NotNil(t, e.PublishedAt)
	}
}

func TestBulkService_ConfirmationRequired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct, ids := seedBulk(t, env, 2)

	_, err := env.svc.Bulk.Execute(ctx, ct.ID, &service.BulkRequest{Action: bulk.ActionDelete, IDs: ids})
	require.ErrorIs(t, err, service.ErrConfirmationRequired)

	var confirm *service.ConfirmationError
	require.ErrorAs(t, err, &confirm)
	assert.NotEmpty(t, confirm.Action.ConfirmationText)
	assert.Len(t, env.repos.Entries.Entries, 2)

	result, err := env.svc.Bulk.Execute(ctx, ct.ID, &service.BulkRequest{Action: bulk.ActionDelete, IDs: ids, Confirmed: true})
	require.NoError(t, err)
	assert.Len(t, result.Processed, 2)
	assert.Empty(t, env.repos.Entries.Entries)
}

func TestBulkService_StopsAtFirstFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct, ids := seedBulk(t, env, 3)

	env.repos.Entries.StatusError = map[string]error{ids[1]: errors.New("row locked")}

	result, err := env.svc.Bulk.Execute(ctx, ct.ID, &service.BulkRequest{Action: bulk.ActionArchive, IDs: ids, Confirmed: true})
	require.NoError(t, err)

	assert.Equal(t, []string{ids[0]}, result.Processed)
	assert.Equal(t, ids[1], result.FailedID)
	assert.Contains(t, result.Error, "row locked")

	first, _ := env.repos.Entries.GetByID(ctx, ids[0])
	third, _ := env.repos.Entries.GetByID(ctx, ids[2])
	assert.Equal(t, models.EntryStatusArchived, first.Status)
	assert.Equal(t, models.EntryStatusDraft, third.Status)
}

func TestBulkService_EntryFromOtherType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct, ids := seedBulk(t, env, 1)
	other, err := env.svc.ContentType.Create(ctx, &models.CreateContentTypeRequest{Name: "page"})
	require.NoError(t, err)

	result, err := env.svc.Bulk.Execute(ctx, other.ID, &service.BulkRequest{Action: bulk.ActionPublish, IDs: ids})
	require.NoError(t, err)
	assert.Empty(t, result.Processed)
	assert.Equal(t, ids[0], result.FailedID)

	stored, _ := env.repos.Entries.GetByID(ctx, ids[0])
	assert.Equal(t, models.EntryStatusDraft, stored.Status)
	assert.Equal(t, ct.ID, stored.ContentTypeID)
}

func TestBulkService_InvalidRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ct, ids := seedBulk(t, env, 1)

	tests := []struct {
		name   string
		typeID string
		req    *service.BulkRequest
		want   error
	}{
		{"missing action", ct.ID, &service.BulkRequest{IDs: ids}, service.ErrInvalidInput},
		{"no ids", ct.ID, &service.BulkRequest{Action: bulk.ActionPublish}, service.ErrInvalidInput},
		{"unknown action", ct.ID, &service.BulkRequest{Action: "feature", IDs: ids}, service.ErrInvalidInput},
		{"unknown type", uuid.New().String(), &service.BulkRequest{Action: bulk.ActionPublish, IDs: ids}, service.ErrContentTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Bulk.Execute(ctx, tt.typeID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
