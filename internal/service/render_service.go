package service

import (
	"context"
	"fmt"
	"time"

	"github.com/content-modeling-api/internal/format"
	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/rs/zerolog"
)

// RenderedType identifies the content type of a rendered entry
type RenderedType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Slug        string `json:"slug"`
}

// RenderedEntry is an entry with every field formatted for display
type RenderedEntry struct {
	ID          string                  `json:"id"`
	Slug        *string                 `json:"slug,omitempty"`
	Status      models.EntryStatus      `json:"status"`
	PublishedAt *time.Time              `json:"published_at,omitempty"`
	ContentType RenderedType            `json:"content_type"`
	Fields      []format.FormattedValue `json:"fields"`
	Tags        []models.Tag            `json:"tags"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// RenderedPage is one page of rendered entries
type RenderedPage struct {
	Entries  []*RenderedEntry `json:"entries"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Pages    int              `json:"pages"`
}

// renderService is the concrete implementation of RenderService
type renderService struct {
	types     repository.ContentTypeRepository
	entries   repository.ContentEntryRepository
	tags      repository.TagRepository
	formatter *format.Formatter
	pages     pageLimits
	log       zerolog.Logger
}

func newRenderService(repos *repository.Repositories, formatter *format.Formatter, pages pageLimits, log zerolog.Logger) *renderService {
	return &renderService{
		types:     repos.ContentType,
		entries:   repos.ContentEntry,
		tags:      repos.Tag,
		formatter: formatter,
		pages:     pages,
		log:       log.With().Str("service", "render").Logger(),
	}
}

// Preview renders an entry regardless of its status
func (s *renderService) Preview(ctx context.Context, entryID string) (*RenderedEntry, error) {
	if !isUUID(entryID) {
		return nil, ErrEntryNotFound
	}
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	ct, err := s.types.GetByID(ctx, entry.ContentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}
	if ct == nil {
		return nil, ErrContentTypeNotFound
	}
	return s.render(ctx, ct, entry)
}

// ListPublished renders one page of published entries of the type with typeSlug
func (s *renderService) ListPublished(ctx context.Context, typeSlug string, page, pageSize int) (*RenderedPage, error) {
	ct, err := s.typeBySlug(ctx, typeSlug)
	if err != nil {
		return nil, err
	}

	page, pageSize = s.pages.normalize(page, pageSize)
	total, err := s.entries.Count(ctx, ct.ID, models.EntryStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	entries, err := s.entries.List(ctx, ct.ID, models.EntryStatusPublished, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	out := &RenderedPage{
		Entries:  make([]*RenderedEntry, 0, len(entries)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    models.PageCount(total, pageSize),
	}
	for _, e := range entries {
		rendered, err := s.render(ctx, ct, e)
		if err != nil {
			return nil, err
		}
		out.Entries = append(out.Entries, rendered)
	}
	return out, nil
}

// GetPublished renders one published entry addressed by type and entry slug
func (s *renderService) GetPublished(ctx context.Context, typeSlug, entrySlug string) (*RenderedEntry, error) {
	ct, err := s.typeBySlug(ctx, typeSlug)
	if err != nil {
		return nil, err
	}
	entry, err := s.entries.GetBySlug(ctx, ct.ID, entrySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil || entry.Status != models.EntryStatusPublished {
		return nil, ErrEntryNotFound
	}
	return s.render(ctx, ct, entry)
}

func (s *renderService) typeBySlug(ctx context.Context, typeSlug string) (*models.ContentType, error) {
	ct, err := s.types.GetBySlug(ctx, typeSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}
	if ct == nil {
		return nil, ErrContentTypeNotFound
	}
	return ct, nil
}

func (s *renderService) render(ctx context.Context, ct *models.ContentType, entry *models.ContentEntry) (*RenderedEntry, error) {
	tags, err := s.tags.ListByEntry(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry tags: %w", err)
	}

	return &RenderedEntry{
		ID:          entry.ID,
		Slug:        entry.Slug,
		Status:      entry.Status,
		PublishedAt: entry.PublishedAt,
		ContentType: RenderedType{
			ID:          ct.ID,
			Name:        ct.Name,
			DisplayName: ct.DisplayName,
			Slug:        ct.Slug,
		},
		Fields:    s.formatter.FormatEntry(ct, entry),
		Tags:      tags,
		UpdatedAt: entry.UpdatedAt,
	}, nil
}
