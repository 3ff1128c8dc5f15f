package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/content-modeling-api/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultMimeType = "application/octet-stream"

// UploadInput describes one uploaded file
type UploadInput struct {
	Filename string
	MimeType string
	Size     int64
	AltText  *string
	Body     io.Reader
}

// mediaService is the concrete implementation of MediaService
type mediaService struct {
	media     repository.MediaRepository
	blobs     storage.BlobStore
	pages     pageLimits
	urlPrefix string
	log       zerolog.Logger
}

func newMediaService(media repository.MediaRepository, blobs storage.BlobStore, pages pageLimits, urlPrefix string, log zerolog.Logger) *mediaService {
	return &mediaService{
		media:     media,
		blobs:     blobs,
		pages:     pages,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		log:       log.With().Str("service", "media").Logger(),
	}
}

// Upload writes the bytes to the blob store and then records the metadata
func (s *mediaService) Upload(ctx context.Context, in *UploadInput) (*models.Media, error) {
	name := filepath.Base(strings.TrimSpace(in.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, invalidf("file", "filename is required")
	}
	if in.Body == nil {
		return nil, invalidf("file", "file is required")
	}

	mimeType := in.MimeType
	if mimeType == "" || mimeType == defaultMimeType {
		if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
			mimeType = byExt
		}
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	m := &models.Media{
		ID:         id,
		Filename:   name,
		MimeType:   mimeType,
		SizeBytes:  in.Size,
		StorageKey: path.Join("media", now.Format("2006/01"), id+strings.ToLower(filepath.Ext(name))),
		AltText:    in.AltText,
		CreatedAt:  now,
	}

	if err := s.blobs.Put(ctx, m.StorageKey, in.Body, in.Size, mimeType); err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}
	if err := s.media.Create(ctx, m); err != nil {
		if delErr := s.blobs.Delete(ctx, m.StorageKey); delErr != nil {
			s.log.Warn().Err(delErr).Str("key", m.StorageKey).Msg("Failed to remove orphaned blob")
		}
		return nil, fmt.Errorf("failed to record media: %w", err)
	}

	s.withURL(m)
	s.log.Info().Str("media_id", m.ID).Str("mime_type", m.MimeType).Int64("size", m.SizeBytes).Msg("Media uploaded")
	return m, nil
}

// List returns one page of media, newest first
func (s *mediaService) List(ctx context.Context, page, pageSize int) (*models.MediaPage, error) {
	page, pageSize = s.pages.normalize(page, pageSize)

	total, err := s.media.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count media: %w", err)
	}
	items, err := s.media.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	for _, m := range items {
		s.withURL(m)
	}

	return &models.MediaPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    models.PageCount(total, pageSize),
	}, nil
}

// Get loads media metadata
func (s *mediaService) Get(ctx context.Context, id string) (*models.Media, error) {
	if !isUUID(id) {
		return nil, ErrMediaNotFound
	}
	m, err := s.media.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	if m == nil {
		return nil, ErrMediaNotFound
	}
	s.withURL(m)
	return m, nil
}

// Open returns the metadata and a reader over the stored bytes
func (s *mediaService) Open(ctx context.Context, id string) (*models.Media, io.ReadCloser, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(ctx, m.StorageKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open media: %w", err)
	}
	return m, rc, nil
}

// Delete removes the metadata row and then the blob
func (s *mediaService) Delete(ctx context.Context, id string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.media.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	if !deleted {
		return ErrMediaNotFound
	}

	if err := s.blobs.Delete(ctx, m.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Warn().Err(err).Str("media_id", id).Str("key", m.StorageKey).Msg("Failed to delete blob")
	}
	s.log.Info().Str("media_id", id).Msg("Media deleted")
	return nil
}

func (s *mediaService) withURL(m *models.Media) {
	m.URL = s.urlPrefix + "/" + m.ID + "/file"
}
