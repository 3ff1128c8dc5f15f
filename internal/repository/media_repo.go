package repository

import (
	"context"
	"database/sql"

	"github.com/content-modeling-api/internal/database"
	"github.com/content-modeling-api/internal/models"
)

const mediaColumns = `id, filename, mime_type, size_bytes, storage_key, alt_text, created_at`

// mediaRepo is the concrete implementation of MediaRepository
type mediaRepo struct {
	db *database.DB
}

// NewMediaRepo creates a new media repository
func NewMediaRepo(db *database.DB) MediaRepository {
	return &mediaRepo{db: db}
}

// Create inserts media metadata; the bytes are already in the blob store
func (r *mediaRepo) Create(ctx context.Context, media *models.Media) error {
	query := `INSERT INTO media (` + mediaColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		media.ID, media.Filename, media.MimeType, media.SizeBytes, media.StorageKey,
		nullStringPtr(media.AltText), media.CreatedAt,
	)
	return err
}

// GetByID retrieves media metadata by ID
func (r *mediaRepo) GetByID(ctx context.Context, id string) (*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`

	media, err := scanMedia(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return media, nil
}

// List returns one page of media, newest first
func (r *mediaRepo) List(ctx context.Context, limit, offset int) ([]*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.Media, 0)
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, media)
	}
	return items, rows.Err()
}

// Count returns the total number of media items
func (r *mediaRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media").Scan(&count)
	return count, err
}

// Delete removes media metadata
func (r *mediaRepo) Delete(ctx context.Context, id string) (bool, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM media WHERE id = $1", id))
}

func scanMedia(row rowScanner) (*models.Media, error) {
	var media models.Media
	var altText sql.NullString

	err := row.Scan(
		&media.ID, &media.Filename, &media.MimeType, &media.SizeBytes, &media.StorageKey,
		&altText, &media.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	media.AltText = stringPtr(altText)
	return &media, nil
}
