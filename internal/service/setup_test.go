package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/content-modeling-api/internal/bulk"
	"github.com/content-modeling-api/internal/config"
	"github.com/content-modeling-api/internal/mocks"
	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repos *mocks.MockRepositories
	blobs *mocks.MockBlobStore
	svc   *service.Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	registry, err := bulk.NewRegistry(bulk.DefaultActions())
	require.NoError(t, err)

	cfg := &config.Config{
		Content: config.ContentConfig{
			DefaultPageSize: 10,
			MaxPageSize:     50,
			SlugMaxAttempts: 5,
		},
		Scheduler: config.SchedulerConfig{Interval: 10 * time.Millisecond},
		Media:     config.MediaConfig{URLPrefix: "/v1/media/"},
	}

	repos := mocks.NewMockRepositories()
	blobs := mocks.NewMockBlobStore()
	return &testEnv{
		repos: repos,
		blobs: blobs,
		svc:   service.NewServices(repos.Repositories(), blobs, registry, cfg, zerolog.Nop()),
	}
}

// articleType creates a type with title (text), views (number) and body (rich_text)
func (e *testEnv) articleType(t *testing.T) *models.ContentType {
	t.Helper()
	ct, err := e.svc.ContentType.Create(context.Background(), &models.CreateContentTypeRequest{
		Name:        "article",
		DisplayName: "Article",
		Fields: []models.CreateContentFieldRequest{
			{Name: "title", DisplayName: "Title", FieldType: models.FieldTypeText, Required: true},
			{Name: "views", FieldType: models.FieldTypeNumber},
			{Name: "body", FieldType: models.FieldTypeRichText},
		},
	})
	require.NoError(t, err)
	return ct
}

func (e *testEnv) entry(t *testing.T, ct *models.ContentType, req *models.CreateEntryRequest) *models.ContentEntry {
	t.Helper()
	entry, err := e.svc.Entry.Create(context.Background(), ct.ID, req)
	require.NoError(t, err)
	return entry
}

func fieldID(ct *models.ContentType, name string) string {
	for _, f := range ct.Fields {
		if f.Name == name {
			return f.ID
		}
	}
	return ""
}

func strPtr(s string) *string { return &s }
