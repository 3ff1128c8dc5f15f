package service

import (
	"context"
	"fmt"
	"time"

	"github.com/content-modeling-api/internal/codec"
	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/content-modeling-api/internal/slug"
	"github.com/content-modeling-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// entrySlugFallback is the slug base for entry slugs with no alphanumerics
const entrySlugFallback = "entry"

// entryService is the concrete implementation of EntryService
type entryService struct {
	types        repository.ContentTypeRepository
	entries      repository.ContentEntryRepository
	tags         repository.TagRepository
	pages        pageLimits
	slugAttempts int
	log          zerolog.Logger
}

func newEntryService(repos *repository.Repositories, pages pageLimits, slugAttempts int, log zerolog.Logger) *entryService {
	return &entryService{
		types:        repos.ContentType,
		entries:      repos.ContentEntry,
		tags:         repos.Tag,
		pages:        pages,
		slugAttempts: slugAttempts,
		log:          log.With().Str("service", "entry").Logger(),
	}
}

// Create stores an entry with its encoded field values
func (s *entryService) Create(ctx context.Context, typeID string, req *models.CreateEntryRequest) (*models.ContentEntry, error) {
	if err := invalid(validation.ValidateEntry(req)); err != nil {
		return nil, err
	}
	ct, err := s.loadType(ctx, typeID)
	if err != nil {
		return nil, err
	}

	values, err := encodeValues(ct, req.FieldValues)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &models.ContentEntry{
		ID:            uuid.New().String(),
		ContentTypeID: ct.ID,
		Status:        req.Status,
		ScheduledAt:   req.ScheduledAt,
		FieldValues:   values,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if entry.Status == "" {
		entry.Status = models.EntryStatusDraft
	}
	if entry.Status == models.EntryStatusPublished {
		entry.PublishedAt = &now
	}

	if req.Slug == nil || *req.Slug == "" {
		err = s.entries.Create(ctx, entry)
	} else {
		base := slug.Base(*req.Slug, entrySlugFallback)
		_, err = slug.CreateUnique(ctx, base, s.slugTaken(ct.ID, ""), func(ctx context.Context, candidate string) error {
			entry.Slug = &candidate
			return s.entries.Create(ctx, entry)
		}, s.slugAttempts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	attachFields(ct, entry)
	entry.ContentType = ct
	entry.Tags = []models.Tag{}

	s.log.Info().
		Str("entry_id", entry.ID).
		Str("content_type_id", ct.ID).
		Str("status", string(entry.Status)).
		Int("values", len(values)).
		Msg("Entry created")
	return entry, nil
}

// List returns one page of entries of a content type, newest first
func (s *entryService) List(ctx context.Context, typeID string, req models.ListEntriesRequest) (*models.EntryPage, error) {
	if req.Status != "" && !models.ValidEntryStatuses[req.Status] {
		return nil, invalidf("status", "invalid status %q", req.Status)
	}
	ct, err := s.loadType(ctx, typeID)
	if err != nil {
		return nil, err
	}

	page, pageSize := s.pages.normalize(req.Page, req.PageSize)

	total, err := s.entries.Count(ctx, ct.ID, req.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	entries, err := s.entries.List(ctx, ct.ID, req.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	for _, e := range entries {
		attachFields(ct, e)
	}

	return &models.EntryPage{
		Entries:  entries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    models.PageCount(total, pageSize),
	}, nil
}

// Get loads an entry with its content type, joined values and tags
func (s *entryService) Get(ctx context.Context, id string) (*models.ContentEntry, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ct, err := s.types.GetByID(ctx, entry.ContentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}
	if ct == nil {
		return nil, ErrContentTypeNotFound
	}

	tags, err := s.tags.ListByEntry(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry tags: %w", err)
	}

	attachFields(ct, entry)
	entry.ContentType = ct
	entry.Tags = tags
	return entry, nil
}

// Update applies a partial update. Supplied field values replace the whole set.
func (s *entryService) Update(ctx context.Context, id string, req *models.UpdateEntryRequest) (*models.ContentEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invalid(validation.ValidateEntryUpdate(req, entry.ScheduledAt != nil)); err != nil {
		return nil, err
	}
	ct := entry.ContentType

	replace := req.FieldValues != nil
	if replace {
		values, err := encodeValues(ct, *req.FieldValues)
		if err != nil {
			return nil, err
		}
		entry.FieldValues = values
	}

	now := time.Now().UTC()
	if req.ScheduledAt != nil {
		entry.ScheduledAt = req.ScheduledAt
	}
	if req.Status != nil {
		entry.Status = *req.Status
		if entry.Status == models.EntryStatusPublished && entry.PublishedAt == nil {
			entry.PublishedAt = &now
		}
	}
	entry.UpdatedAt = now

	if req.Slug == nil || (entry.Slug != nil && *entry.Slug == *req.Slug) {
		err = s.entries.Update(ctx, entry, replace)
	} else if *req.Slug == "" {
		entry.Slug = nil
		err = s.entries.Update(ctx, entry, replace)
	} else {
		base := slug.Base(*req.Slug, entrySlugFallback)
		_, err = slug.CreateUnique(ctx, base, s.slugTaken(ct.ID, entry.ID), func(ctx context.Context, candidate string) error {
			entry.Slug = &candidate
			return s.entries.Update(ctx, entry, replace)
		}, s.slugAttempts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	attachFields(ct, entry)
	s.log.Info().Str("entry_id", entry.ID).Bool("values_replaced", replace).Msg("Entry updated")
	return entry, nil
}

// Delete removes an entry and its values
func (s *entryService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrEntryNotFound
	}
	deleted, err := s.entries.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		return ErrEntryNotFound
	}
	s.log.Info().Str("entry_id", id).Msg("Entry deleted")
	return nil
}

func (s *entryService) load(ctx context.Context, id string) (*models.ContentEntry, error) {
	if !isUUID(id) {
		return nil, ErrEntryNotFound
	}
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

func (s *entryService) loadType(ctx context.Context, typeID string) (*models.ContentType, error) {
	if !isUUID(typeID) {
		return nil, ErrContentTypeNotFound
	}
	ct, err := s.types.GetByID(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}
	if ct == nil {
		return nil, ErrContentTypeNotFound
	}
	return ct, nil
}

func (s *entryService) slugTaken(typeID, excludeID string) slug.ExistsFunc {
	return func(ctx context.Context, candidate string) (bool, error) {
		return s.entries.SlugExists(ctx, typeID, candidate, excludeID)
	}
}

// encodeValues checks each input against its field and encodes it for storage
func encodeValues(ct *models.ContentType, inputs []models.FieldValueInput) ([]models.ContentFieldValue, error) {
	values := make([]models.ContentFieldValue, 0, len(inputs))
	var errs []validation.ValidationError

	for i, in := range inputs {
		field := ct.FieldByID(in.FieldID)
		if field == nil {
			errs = append(errs, validation.ValidationError{
				Field:   fmt.Sprintf("field_values[%d].field_id", i),
				Message: "field does not belong to this content type",
				Value:   in.FieldID,
			})
			continue
		}
		if ve := validation.ValidateFieldValue(field, in.Value); ve != nil {
			errs = append(errs, *ve)
			continue
		}

		raw, err := codec.Encode(in.Value)
		if err != nil {
			errs = append(errs, validation.ValidationError{Field: field.Name, Message: err.Error()})
			continue
		}
		values = append(values, models.ContentFieldValue{FieldID: field.ID, Value: raw})
	}

	if err := invalid(errs); err != nil {
		return nil, err
	}
	return values, nil
}

// attachFields joins each value to its field definition and orders values by field order
func attachFields(ct *models.ContentType, entry *models.ContentEntry) {
	position := make(map[string]int, len(ct.Fields))
	for i := range ct.Fields {
		position[ct.Fields[i].ID] = i
	}

	ordered := make([]models.ContentFieldValue, 0, len(entry.FieldValues))
	for i := range ct.Fields {
		for _, v := range entry.FieldValues {
			if v.FieldID == ct.Fields[i].ID {
				v.Field = &ct.Fields[i]
				ordered = append(ordered, v)
			}
		}
	}
	for _, v := range entry.FieldValues {
		if _, ok := position[v.FieldID]; !ok {
			ordered = append(ordered, v)
		}
	}
	entry.FieldValues = ordered
}
