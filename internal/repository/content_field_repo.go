package repository

import (
	"context"
	"database/sql"

	"github.com/content-modeling-api/internal/database"
	"github.com/content-modeling-api/internal/models"
)

const fieldColumns = `id, content_type_id, name, display_name, field_type, required, is_unique,
	default_value, options, related_type_id, sort_order, created_at`

// contentFieldRepo is the concrete implementation of ContentFieldRepository
type contentFieldRepo struct {
	db *database.DB
}

// NewContentFieldRepo creates a new content field repository
func NewContentFieldRepo(db *database.DB) ContentFieldRepository {
	return &contentFieldRepo{db: db}
}

// Create inserts a field definition
func (r *contentFieldRepo) Create(ctx context.Context, field *models.ContentField) error {
	return insertField(ctx, r.db, field)
}

// Update overwrites every attribute of the field; Options is replaced wholesale
func (r *contentFieldRepo) Update(ctx context.Context, field *models.ContentField) error {
	return updateField(ctx, r.db, field)
}

// GetByID retrieves a field definition
func (r *contentFieldRepo) GetByID(ctx context.Context, id string) (*models.ContentField, error) {
	query := `SELECT ` + fieldColumns + ` FROM content_fields WHERE id = $1`

	field, err := scanField(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return field, nil
}

// ListByType returns the fields of a content type in display order
func (r *contentFieldRepo) ListByType(ctx context.Context, contentTypeID string) ([]models.ContentField, error) {
	return listFields(ctx, r.db, contentTypeID)
}

// CountByType returns the number of fields defined on a content type
func (r *contentFieldRepo) CountByType(ctx context.Context, contentTypeID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM content_fields WHERE content_type_id = $1", contentTypeID,
	).Scan(&count)
	return count, err
}

// Delete removes a field definition; its stored values cascade
func (r *contentFieldRepo) Delete(ctx context.Context, id string) (bool, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM content_fields WHERE id = $1", id))
}

func insertField(ctx context.Context, db execer, field *models.ContentField) error {
	query := `
		INSERT INTO content_fields (` + fieldColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := db.ExecContext(ctx, query,
		field.ID, field.ContentTypeID, field.Name, field.DisplayName, field.FieldType,
		field.Required, field.Unique, nullStringPtr(field.DefaultValue), nullJSON(field.Options),
		nullStringPtr(field.RelatedTypeID), field.Order, field.CreatedAt,
	)
	return mapConflict(err)
}

func updateField(ctx context.Context, db execer, field *models.ContentField) error {
	query := `
		UPDATE content_fields SET
			name = $1, display_name = $2, field_type = $3, required = $4, is_unique = $5,
			default_value = $6, options = $7, related_type_id = $8, sort_order = $9
		WHERE id = $10
	`
	_, err := db.ExecContext(ctx, query,
		field.Name, field.DisplayName, field.FieldType, field.Required, field.Unique,
		nullStringPtr(field.DefaultValue), nullJSON(field.Options), nullStringPtr(field.RelatedTypeID),
		field.Order, field.ID,
	)
	return mapConflict(err)
}

func listFields(ctx context.Context, db *database.DB, contentTypeID string) ([]models.ContentField, error) {
	query := `SELECT ` + fieldColumns + ` FROM content_fields WHERE content_type_id = $1 ORDER BY sort_order, created_at`

	rows, err := db.QueryContext(ctx, query, contentTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := make([]models.ContentField, 0)
	for rows.Next() {
		field, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, *field)
	}
	return fields, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanField(row rowScanner) (*models.ContentField, error) {
	var field models.ContentField
	var defaultValue, relatedTypeID sql.NullString
	var options []byte

	err := row.Scan(
		&field.ID, &field.ContentTypeID, &field.Name, &field.DisplayName, &field.FieldType,
		&field.Required, &field.Unique, &defaultValue, &options, &relatedTypeID,
		&field.Order, &field.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	field.DefaultValue = stringPtr(defaultValue)
	field.RelatedTypeID = stringPtr(relatedTypeID)
	if len(options) > 0 {
		field.Options = append([]byte(nil), options...)
	}
	return &field, nil
}
