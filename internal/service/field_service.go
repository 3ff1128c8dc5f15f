package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/content-modeling-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// fieldService is the concrete implementation of FieldService
type fieldService struct {
	types  repository.ContentTypeRepository
	fields repository.ContentFieldRepository
	log    zerolog.Logger
}

func newFieldService(repos *repository.Repositories, log zerolog.Logger) *fieldService {
	return &fieldService{
		types:  repos.ContentType,
		fields: repos.ContentField,
		log:    log.With().Str("service", "field").Logger(),
	}
}

// AddField appends a field; order defaults to the current field count
func (s *fieldService) AddField(ctx context.Context, typeID string, req *models.CreateContentFieldRequest) (*models.ContentField, error) {
	if err := invalid(validation.ValidateField(req)); err != nil {
		return nil, err
	}
	ct, err := s.requireType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if nameTaken(ct.Fields, req.Name, "") {
		return nil, duplicateFieldName("name", req.Name)
	}

	count, err := s.fields.CountByType(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count fields: %w", err)
	}

	field := newField(typeID, req, count, time.Now().UTC())
	if err := s.fields.Create(ctx, field); err != nil {
		if errors.Is(err, repository.ErrFieldNameConflict) {
			return nil, duplicateFieldName("name", req.Name)
		}
		return nil, fmt.Errorf("failed to create field: %w", err)
	}

	s.log.Info().
		Str("content_type_id", typeID).
		Str("field_id", field.ID).
		Str("field_type", string(field.FieldType)).
		Int("order", field.Order).
		Msg("Field added")
	return field, nil
}

// UpdateField overwrites only the attributes present in the patch
func (s *fieldService) UpdateField(ctx context.Context, typeID, fieldID string, req *models.UpdateContentFieldRequest) (*models.ContentField, error) {
	if err := invalid(validation.ValidateFieldUpdate(req)); err != nil {
		return nil, err
	}
	field, err := s.load(ctx, typeID, fieldID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		siblings, err := s.fields.ListByType(ctx, typeID)
		if err != nil {
			return nil, fmt.Errorf("failed to list fields: %w", err)
		}
		if nameTaken(siblings, *req.Name, field.ID) {
			return nil, duplicateFieldName("name", *req.Name)
		}
		field.Name = *req.Name
	}
	if req.DisplayName != nil {
		field.DisplayName = *req.DisplayName
	}
	if req.FieldType != nil {
		field.FieldType = *req.FieldType
	}
	if req.Required != nil {
		field.Required = *req.Required
	}
	if req.Unique != nil {
		field.Unique = *req.Unique
	}
	if req.DefaultValue != nil {
		field.DefaultValue = req.DefaultValue
	}
	if req.Options != nil {
		field.Options = req.Options
	}
	if req.RelatedTypeID != nil {
		field.RelatedTypeID = req.RelatedTypeID
	}
	if req.Order != nil {
		field.Order = *req.Order
	}

	if err := s.fields.Update(ctx, field); err != nil {
		if errors.Is(err, repository.ErrFieldNameConflict) {
			return nil, duplicateFieldName("name", field.Name)
		}
		return nil, fmt.Errorf("failed to update field: %w", err)
	}
	return field, nil
}

// DeleteField removes a field and its stored values
func (s *fieldService) DeleteField(ctx context.Context, typeID, fieldID string) error {
	if _, err := s.load(ctx, typeID, fieldID); err != nil {
		return err
	}
	deleted, err := s.fields.Delete(ctx, fieldID)
	if err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}
	if !deleted {
		return ErrFieldNotFound
	}
	s.log.Info().Str("content_type_id", typeID).Str("field_id", fieldID).Msg("Field deleted")
	return nil
}

func (s *fieldService) requireType(ctx context.Context, typeID string) (*models.ContentType, error) {
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

// load returns the field only when it belongs to typeID
func (s *fieldService) load(ctx context.Context, typeID, fieldID string) (*models.ContentField, error) {
	if _, err := s.requireType(ctx, typeID); err != nil {
		return nil, err
	}
	if !isUUID(fieldID) {
		return nil, ErrFieldNotFound
	}
	field, err := s.fields.GetByID(ctx, fieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}
	if field == nil || field.ContentTypeID != typeID {
		return nil, ErrFieldNotFound
	}
	return field, nil
}

// newField builds a field definition; order is used unless req sets one
func newField(typeID string, req *models.CreateContentFieldRequest, order int, now time.Time) *models.ContentField {
	field := &models.ContentField{
		ID:            uuid.New().String(),
		ContentTypeID: typeID,
		Name:          req.Name,
		DisplayName:   req.DisplayName,
		FieldType:     req.FieldType,
		Required:      req.Required,
		Unique:        req.Unique,
		DefaultValue:  req.DefaultValue,
		Options:       req.Options,
		RelatedTypeID: req.RelatedTypeID,
		Order:         order,
		CreatedAt:     now,
	}
	if field.DisplayName == "" {
		field.DisplayName = field.Name
	}
	if req.Order != nil {
		field.Order = *req.Order
	}
	return field
}

// nameTaken reports whether a field other than excludeID already uses name.
// Names compare case-insensitively.
func nameTaken(fields []models.ContentField, name, excludeID string) bool {
	for _, f := range fields {
		if f.ID != excludeID && strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

func duplicateFieldName(field, name string) error {
	return invalid([]validation.ValidationError{{Field: field, Message: "duplicate field name", Value: name}})
}
