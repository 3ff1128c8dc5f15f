package repository

import (
	"context"
	"time"

	"github.com/content-modeling-api/internal/database"
	"github.com/content-modeling-api/internal/models"
)

// Lookups return (nil, nil) when no row matches. Mutations that target a
// single row report whether it existed.

// ContentTypeRepository defines the interface for content type persistence
type ContentTypeRepository interface {
	// Create inserts the type and its initial fields in one transaction
	Create(ctx context.Context, ct *models.ContentType) error
	// Update writes the type row and the renamed fields in one transaction
	Update(ctx context.Context, ct *models.ContentType, renamed []models.ContentField) (bool, error)
	GetByID(ctx context.Context, id string) (*models.ContentType, error)
	GetBySlug(ctx context.Context, slug string) (*models.ContentType, error)
	// List returns types ordered by creation time with EntryCount populated
	List(ctx context.Context) ([]*models.ContentType, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// ContentFieldRepository defines the interface for field definition persistence
type ContentFieldRepository interface {
	Create(ctx context.Context, field *models.ContentField) error
	Update(ctx context.Context, field *models.ContentField) error
	GetByID(ctx context.Context, id string) (*models.ContentField, error)
	ListByType(ctx context.Context, contentTypeID string) ([]models.ContentField, error)
	CountByType(ctx context.Context, contentTypeID string) (int, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ContentEntryRepository defines the interface for entry and field value persistence
type ContentEntryRepository interface {
	// Create inserts the entry and its FieldValues in one transaction
	Create(ctx context.Context, entry *models.ContentEntry) error
	// Update writes the entry row. When replaceValues is set the stored value
	// set is deleted and entry.FieldValues inserted in the same transaction.
	Update(ctx context.Context, entry *models.ContentEntry, replaceValues bool) error
	GetByID(ctx context.Context, id string) (*models.ContentEntry, error)
	GetBySlug(ctx context.Context, contentTypeID, slug string) (*models.ContentEntry, error)
	SlugExists(ctx context.Context, contentTypeID, slug, excludeID string) (bool, error)
	// List returns newest-first entries with field values; empty status matches all
	List(ctx context.Context, contentTypeID string, status models.EntryStatus, limit, offset int) ([]*models.ContentEntry, error)
	Count(ctx context.Context, contentTypeID string, status models.EntryStatus) (int, error)
	CountAll(ctx context.Context) (int, error)
	GetFieldValues(ctx context.Context, entryID string) ([]models.ContentFieldValue, error)
	UpdateStatus(ctx context.Context, id string, status models.EntryStatus, publishedAt *time.Time) (bool, error)
	// PublishScheduled publishes the entry only while it is still SCHEDULED
	PublishScheduled(ctx context.Context, id string, publishedAt time.Time) (bool, error)
	ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]*models.ContentEntry, error)
	Delete(ctx context.Context, id string) (bool, error)
	StreamByType(ctx context.Context, contentTypeID string, callback func(*models.ContentEntry) error) error
}

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	// SetEntryTags replaces the entry's tag set
	SetEntryTags(ctx context.Context, entryID string, tagIDs []string) error
	ListByEntry(ctx context.Context, entryID string) ([]models.Tag, error)
}

// MediaRepository defines the interface for media metadata persistence
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id string) (*models.Media, error)
	List(ctx context.Context, limit, offset int) ([]*models.Media, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	ContentType  ContentTypeRepository
	ContentField ContentFieldRepository
	ContentEntry ContentEntryRepository
	Tag          TagRepository
	Media        MediaRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		ContentType:  NewContentTypeRepo(db),
		ContentField: NewContentFieldRepo(db),
		ContentEntry: NewContentEntryRepo(db),
		Tag:          NewTagRepo(db),
		Media:        NewMediaRepo(db),
	}
}
