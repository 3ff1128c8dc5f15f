package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/content-modeling-api/internal/database"
	"github.com/content-modeling-api/internal/models"
)

// contentTypeRepo is the concrete implementation of ContentTypeRepository
type contentTypeRepo struct {
	db *database.DB
}

// NewContentTypeRepo creates a new content type repository
func NewContentTypeRepo(db *database.DB) ContentTypeRepository {
	return &contentTypeRepo{db: db}
}

// Create inserts a content type together with its initial field list
func (r *contentTypeRepo) Create(ctx context.Context, ct *models.ContentType) error {
	query := `
		INSERT INTO content_types (id, name, display_name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			ct.ID, ct.Name, ct.DisplayName, ct.Slug, nullStringPtr(ct.Description),
			ct.CreatedAt, ct.UpdatedAt,
		)
		if err != nil {
			return mapConflict(err)
		}

		for i := range ct.Fields {
			if err := insertField(ctx, tx, &ct.Fields[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update writes name, display name, slug and description, then the renamed
// fields, in one transaction. It reports false when the type does not exist.
func (r *contentTypeRepo) Update(ctx context.Context, ct *models.ContentType, renamed []models.ContentField) (bool, error) {
	query := `
		UPDATE content_types SET name = $1, display_name = $2, slug = $3, description = $4, updated_at = $5
		WHERE id = $6
	`
	var updated bool
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		ok, err := affected(tx.ExecContext(ctx, query,
			ct.Name, ct.DisplayName, ct.Slug, nullStringPtr(ct.Description), time.Now(), ct.ID,
		))
		if err != nil {
			return mapConflict(err)
		}
		if !ok {
			return nil
		}

		for i := range renamed {
			if err := updateField(ctx, tx, &renamed[i]); err != nil {
				return err
			}
		}
		updated = true
		return nil
	})
	return updated, err
}

// GetByID retrieves a content type with its ordered fields
func (r *contentTypeRepo) GetByID(ctx context.Context, id string) (*models.ContentType, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves a content type by its global slug
func (r *contentTypeRepo) GetBySlug(ctx context.Context, slug string) (*models.ContentType, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *contentTypeRepo) getOne(ctx context.Context, column, value string) (*models.ContentType, error) {
	// column is one of two literals chosen above, never caller input
	query := `
		SELECT id, name, display_name, slug, description, created_at, updated_at
		FROM content_types WHERE ` + column + ` = $1
	`

	var ct models.ContentType
	var description sql.NullString

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&ct.ID, &ct.Name, &ct.DisplayName, &ct.Slug, &description, &ct.CreatedAt, &ct.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ct.Description = stringPtr(description)

	fields, err := listFields(ctx, r.db, ct.ID)
	if err != nil {
		return nil, err
	}
	ct.Fields = fields

	return &ct, nil
}

// List returns all content types oldest first, each with its entry count
func (r *contentTypeRepo) List(ctx context.Context) ([]*models.ContentType, error) {
	query := `
		SELECT t.id, t.name, t.display_name, t.slug, t.description, t.created_at, t.updated_at,
			(SELECT COUNT(*) FROM content_entries e WHERE e.content_type_id = t.id) AS entry_count
		FROM content_types t
		ORDER BY t.created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]*models.ContentType, 0)
	for rows.Next() {
		var ct models.ContentType
		var description sql.NullString
		if err := rows.Scan(
			&ct.ID, &ct.Name, &ct.DisplayName, &ct.Slug, &description,
			&ct.CreatedAt, &ct.UpdatedAt, &ct.EntryCount,
		); err != nil {
			return nil, err
		}
		ct.Description = stringPtr(description)
		ct.Fields = []models.ContentField{}
		types = append(types, &ct)
	}
	return types, rows.Err()
}

// SlugExists checks the global slug scope, ignoring excludeID when set
func (r *contentTypeRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM content_types WHERE slug = $1 AND ($2 = '' OR id::text <> $2))",
		slug, excludeID,
	).Scan(&exists)
	return exists, err
}

// Delete removes a content type; fields and entries cascade
func (r *contentTypeRepo) Delete(ctx context.Context, id string) (bool, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM content_types WHERE id = $1", id))
}

// Count returns the total number of content types
func (r *contentTypeRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content_types").Scan(&count)
	return count, err
}
