package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/content-modeling-api/internal/slug"
	"github.com/content-modeling-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// typeSlugFallback is the slug base for names with no alphanumerics
const typeSlugFallback = "untitled"

// contentTypeService is the concrete implementation of ContentTypeService
type contentTypeService struct {
	types        repository.ContentTypeRepository
	fields       repository.ContentFieldRepository
	slugAttempts int
	log          zerolog.Logger
}

func newContentTypeService(repos *repository.Repositories, slugAttempts int, log zerolog.Logger) *contentTypeService {
	return &contentTypeService{
		types:        repos.ContentType,
		fields:       repos.ContentField,
		slugAttempts: slugAttempts,
		log:          log.With().Str("service", "content_type").Logger(),
	}
}

// Create persists a content type and its initial fields under a unique slug
func (s *contentTypeService) Create(ctx context.Context, req *models.CreateContentTypeRequest) (*models.ContentType, error) {
	if err := invalid(validation.ValidateContentType(req)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ct := &models.ContentType{
		ID:          uuid.New().String(),
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Fields:      make([]models.ContentField, 0, len(req.Fields)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if ct.DisplayName == "" {
		ct.DisplayName = ct.Name
	}

	for i := range req.Fields {
		field := newField(ct.ID, &req.Fields[i], i, now)
		ct.Fields = append(ct.Fields, *field)
	}

	base := slug.Base(ct.DisplayName, typeSlugFallback)
	_, err := slug.CreateUnique(ctx, base, s.slugTaken(""), func(ctx context.Context, candidate string) error {
		ct.Slug = candidate
		return s.types.Create(ctx, ct)
	}, s.slugAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to create content type: %w", err)
	}

	s.log.Info().Str("content_type_id", ct.ID).Str("slug", ct.Slug).Int("fields", len(ct.Fields)).Msg("Content type created")
	return ct, nil
}

// Update applies a partial update. A changed display name regenerates the
// slug. Field renames are written with the type row in one transaction.
func (s *contentTypeService) Update(ctx context.Context, id string, req *models.UpdateContentTypeRequest) (*models.ContentType, error) {
	if err := invalid(validation.ValidateContentTypeUpdate(req)); err != nil {
		return nil, err
	}

	ct, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Resolve every rename before writing anything
	renamed := make([]models.ContentField, 0, len(req.Fields))
	for _, rename := range req.Fields {
		field := ct.FieldByID(rename.ID)
		if field == nil {
			return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, rename.ID)
		}
		if rename.Name != nil {
			field.Name = *rename.Name
		}
		if rename.DisplayName != nil {
			field.DisplayName = *rename.DisplayName
		}
		renamed = append(renamed, *field)
	}
	for i, field := range ct.Fields {
		if nameTaken(ct.Fields[i+1:], field.Name, "") {
			return nil, duplicateFieldName("fields", field.Name)
		}
	}

	if req.Name != nil {
		ct.Name = *req.Name
	}
	if req.Description != nil {
		ct.Description = req.Description
	}
	ct.UpdatedAt = time.Now().UTC()

	write := func(ctx context.Context) error {
		updated, err := s.types.Update(ctx, ct, renamed)
		if err != nil {
			return err
		}
		if !updated {
			return ErrContentTypeNotFound
		}
		return nil
	}

	if req.DisplayName == nil || *req.DisplayName == ct.DisplayName {
		err = write(ctx)
	} else {
		ct.DisplayName = *req.DisplayName
		base := slug.Base(ct.DisplayName, typeSlugFallback)
		_, err = slug.CreateUnique(ctx, base, s.slugTaken(ct.ID), func(ctx context.Context, candidate string) error {
			ct.Slug = candidate
			return write(ctx)
		}, s.slugAttempts)
	}

	switch {
	case errors.Is(err, repository.ErrFieldNameConflict):
		return nil, invalidf("fields", "duplicate field name")
	case errors.Is(err, ErrContentTypeNotFound):
		return nil, ErrContentTypeNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to update content type: %w", err)
	}

	s.log.Info().Str("content_type_id", ct.ID).Str("slug", ct.Slug).Int("renamed_fields", len(renamed)).Msg("Content type updated")
	return ct, nil
}

// Get loads a content type with its ordered fields
func (s *contentTypeService) Get(ctx context.Context, id string) (*models.ContentType, error) {
	if !isUUID(id) {
		return nil, ErrContentTypeNotFound
	}
	ct, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}
	if ct == nil {
		return nil, ErrContentTypeNotFound
	}
	return ct, nil
}

// GetBySlug loads a content type by its slug
func (s *contentTypeService) GetBySlug(ctx context.Context, typeSlug string) (*models.ContentType, error) {
	ct, err := s.types.GetBySlug(ctx, typeSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}
	if ct == nil {
		return nil, ErrContentTypeNotFound
	}
	return ct, nil
}

// List returns all content types with entry counts
func (s *contentTypeService) List(ctx context.Context) ([]*models.ContentType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list content types: %w", err)
	}
	return types, nil
}

// Delete removes a content type together with its fields and entries
func (s *contentTypeService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrContentTypeNotFound
	}
	deleted, err := s.types.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete content type: %w", err)
	}
	if !deleted {
		return ErrContentTypeNotFound
	}
	s.log.Info().Str("content_type_id", id).Msg("Content type deleted")
	return nil
}

func (s *contentTypeService) slugTaken(excludeID string) slug.ExistsFunc {
	return func(ctx context.Context, candidate string) (bool, error) {
		return s.types.SlugExists(ctx, candidate, excludeID)
	}
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
