package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/content-modeling-api/internal/slug"
	"github.com/content-modeling-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const tagSlugFallback = "tag"

// tagService is the concrete implementation of TagService
type tagService struct {
	tags         repository.TagRepository
	entries      repository.ContentEntryRepository
	slugAttempts int
	log          zerolog.Logger
}

func newTagService(repos *repository.Repositories, slugAttempts int, log zerolog.Logger) *tagService {
	return &tagService{
		tags:         repos.Tag,
		entries:      repos.ContentEntry,
		slugAttempts: slugAttempts,
		log:          log.With().Str("service", "tag").Logger(),
	}
}

// Create stores a tag under a globally unique slug
func (s *tagService) Create(ctx context.Context, req *models.CreateTagRequest) (*models.Tag, error) {
	if err := invalid(validation.ValidateTag(req)); err != nil {
		return nil, err
	}

	tag := &models.Tag{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now().UTC(),
	}

	exists := func(ctx context.Context, candidate string) (bool, error) {
		return s.tags.SlugExists(ctx, candidate)
	}
	_, err := slug.CreateUnique(ctx, slug.Base(tag.Name, tagSlugFallback), exists, func(ctx context.Context, candidate string) error {
		tag.Slug = candidate
		return s.tags.Create(ctx, tag)
	}, s.slugAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.log.Info().Str("tag_id", tag.ID).Str("slug", tag.Slug).Msg("Tag created")
	return tag, nil
}

// List returns all tags
func (s *tagService) List(ctx context.Context) ([]*models.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Get loads a tag by ID
func (s *tagService) Get(ctx context.Context, id string) (*models.Tag, error) {
	if !isUUID(id) {
		return nil, ErrTagNotFound
	}
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	return tag, nil
}

// Delete removes a tag and its entry links
func (s *tagService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrTagNotFound
	}
	deleted, err := s.tags.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if !deleted {
		return ErrTagNotFound
	}
	return nil
}

// SetEntryTags replaces the entry's tags with tagIDs; every tag must exist
func (s *tagService) SetEntryTags(ctx context.Context, entryID string, tagIDs []string) ([]models.Tag, error) {
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

	seen := make(map[string]bool, len(tagIDs))
	unique := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("%w: %s", err, id)
		}
		unique = append(unique, id)
	}

	if err := s.tags.SetEntryTags(ctx, entryID, unique); err != nil {
		return nil, fmt.Errorf("failed to set entry tags: %w", err)
	}
	return s.tags.ListByEntry(ctx, entryID)
}
