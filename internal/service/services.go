package service

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/content-modeling-api/internal/bulk"
	"github.com/content-modeling-api/internal/config"
	"github.com/content-modeling-api/internal/format"
	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/content-modeling-api/internal/storage"
	"github.com/rs/zerolog"
)

// ContentTypeService defines the interface for content type schema operations
type ContentTypeService interface {
	Create(ctx context.Context, req *models.CreateContentTypeRequest) (*models.ContentType, error)
	Update(ctx context.Context, id string, req *models.UpdateContentTypeRequest) (*models.ContentType, error)
	Get(ctx context.Context, id string) (*models.ContentType, error)
	GetBySlug(ctx context.Context, slug string) (*models.ContentType, error)
	List(ctx context.Context) ([]*models.ContentType, error)
	Delete(ctx context.Context, id string) error
}

// FieldService defines the interface for field definition operations
type FieldService interface {
	AddField(ctx context.Context, typeID string, req *models.CreateContentFieldRequest) (*models.ContentField, error)
	UpdateField(ctx context.Context, typeID, fieldID string, req *models.UpdateContentFieldRequest) (*models.ContentField, error)
	DeleteField(ctx context.Context, typeID, fieldID string) error
}

// EntryService defines the interface for content entry operations
type EntryService interface {
	Create(ctx context.Context, typeID string, req *models.CreateEntryRequest) (*models.ContentEntry, error)
	List(ctx context.Context, typeID string, req models.ListEntriesRequest) (*models.EntryPage, error)
	Get(ctx context.Context, id string) (*models.ContentEntry, error)
	Update(ctx context.Context, id string, req *models.UpdateEntryRequest) (*models.ContentEntry, error)
	Delete(ctx context.Context, id string) error
}

// RenderService renders entries through the presentation formatter
type RenderService interface {
	Preview(ctx context.Context, entryID string) (*RenderedEntry, error)
	ListPublished(ctx context.Context, typeSlug string, page, pageSize int) (*RenderedPage, error)
	GetPublished(ctx context.Context, typeSlug, entrySlug string) (*RenderedEntry, error)
}

// TagService defines the interface for tag operations
type TagService interface {
	Create(ctx context.Context, req *models.CreateTagRequest) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Get(ctx context.Context, id string) (*models.Tag, error)
	Delete(ctx context.Context, id string) error
	SetEntryTags(ctx context.Context, entryID string, tagIDs []string) ([]models.Tag, error)
}

// MediaService defines the interface for the media library
type MediaService interface {
	Upload(ctx context.Context, in *UploadInput) (*models.Media, error)
	List(ctx context.Context, page, pageSize int) (*models.MediaPage, error)
	Get(ctx context.Context, id string) (*models.Media, error)
	Open(ctx context.Context, id string) (*models.Media, io.ReadCloser, error)
	Delete(ctx context.Context, id string) error
}

// ExportService defines the interface for streaming entry exports
type ExportService interface {
	StreamEntries(ctx context.Context, w http.ResponseWriter, typeID, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// SchedulerService promotes scheduled entries once their time has come
type SchedulerService interface {
	// StartProcessor launches the publisher in the background and returns
	StartProcessor(ctx context.Context)
	StopProcessor()
	PublishDue(ctx context.Context) (int, error)
}

// BulkService runs configured bulk actions over entries of one content type
type BulkService interface {
	Actions() []bulk.Action
	Execute(ctx context.Context, typeID string, req *BulkRequest) (*BulkResult, error)
}

// Services holds all service interfaces
type Services struct {
	ContentType ContentTypeService
	Field       FieldService
	Entry       EntryService
	Render      RenderService
	Tag         TagService
	Media       MediaService
	Export      ExportService
	Scheduler   SchedulerService
	Bulk        BulkService
}

// NewServices creates all services
func NewServices(
	repos *repository.Repositories,
	blobs storage.BlobStore,
	registry *bulk.Registry,
	cfg *config.Config,
	log zerolog.Logger,
) *Services {
	formatter := format.New(cfg.Media.URLPrefix)
	pages := pageLimits{defaultSize: cfg.Content.DefaultPageSize, maxSize: cfg.Content.MaxPageSize}
	slugAttempts := cfg.Content.SlugMaxAttempts

	interval := cfg.Scheduler.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Services{
		ContentType: newContentTypeService(repos, slugAttempts, log),
		Field:       newFieldService(repos, log),
		Entry:       newEntryService(repos, pages, slugAttempts, log),
		Render:      newRenderService(repos, formatter, pages, log),
		Tag:         newTagService(repos, slugAttempts, log),
		Media:       newMediaService(repos.Media, blobs, pages, cfg.Media.URLPrefix, log),
		Export:      newExportService(repos, log),
		Scheduler:   newSchedulerService(repos.ContentEntry, interval, log),
		Bulk:        newBulkService(repos, registry, log),
	}
}

// pageLimits normalizes page and page size query values
type pageLimits struct {
	defaultSize int
	maxSize     int
}

func (p pageLimits) normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	def, limit := p.defaultSize, p.maxSize
	if def <= 0 {
		def = 10
	}
	if limit < def {
		limit = def
	}
	if pageSize <= 0 {
		pageSize = def
	}
	if pageSize > limit {
		pageSize = limit
	}
	return page, pageSize
}
