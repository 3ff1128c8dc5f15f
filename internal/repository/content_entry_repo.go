package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/content-modeling-api/internal/database"
	"github.com/content-modeling-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	entryColumns = `id, content_type_id, slug, status, scheduled_at, published_at, created_at, updated_at`

	// streamBatchSize bounds how many entries StreamByType holds in memory
	streamBatchSize = 500
)

// contentEntryRepo is the concrete implementation of ContentEntryRepository
type contentEntryRepo struct {
	db *database.DB
}

// NewContentEntryRepo creates a new content entry repository
func NewContentEntryRepo(db *database.DB) ContentEntryRepository {
	return &contentEntryRepo{db: db}
}

// Create inserts the entry row and bulk-copies its field values
func (r *contentEntryRepo) Create(ctx context.Context, entry *models.ContentEntry) error {
	query := `INSERT INTO content_entries (` + entryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			entry.ID, entry.ContentTypeID, nullStringPtr(entry.Slug), entry.Status,
			entry.ScheduledAt, entry.PublishedAt, entry.CreatedAt, entry.UpdatedAt,
		)
		if err != nil {
			return mapConflict(err)
		}
		return copyValues(ctx, tx, entry)
	})
}

// Update writes the entry row and optionally replaces the whole value set
func (r *contentEntryRepo) Update(ctx context.Context, entry *models.ContentEntry, replaceValues bool) error {
	query := `
		UPDATE content_entries SET slug = $1, status = $2, scheduled_at = $3, published_at = $4, updated_at = $5
		WHERE id = $6
	`
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			nullStringPtr(entry.Slug), entry.Status, entry.ScheduledAt, entry.PublishedAt,
			entry.UpdatedAt, entry.ID,
		)
		if err != nil {
			return mapConflict(err)
		}
		if !replaceValues {
			return nil
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM content_field_values WHERE entry_id = $1", entry.ID); err != nil {
			return err
		}
		return copyValues(ctx, tx, entry)
	})
}

// GetByID retrieves an entry with its field values in field order
func (r *contentEntryRepo) GetByID(ctx context.Context, id string) (*models.ContentEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM content_entries WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetBySlug retrieves an entry by slug within one content type
func (r *contentEntryRepo) GetBySlug(ctx context.Context, contentTypeID, slug string) (*models.ContentEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM content_entries WHERE content_type_id = $1 AND slug = $2`
	return r.getOne(ctx, query, contentTypeID, slug)
}

func (r *contentEntryRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.ContentEntry, error) {
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadValues(ctx, []*models.ContentEntry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// SlugExists checks the per-type slug scope, ignoring excludeID when set
func (r *contentEntryRepo) SlugExists(ctx context.Context, contentTypeID, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM content_entries
			WHERE content_type_id = $1 AND slug = $2 AND ($3 = '' OR id::text <> $3))`,
		contentTypeID, slug, excludeID,
	).Scan(&exists)
	return exists, err
}

// List returns one page of entries, newest first
func (r *contentEntryRepo) List(ctx context.Context, contentTypeID string, status models.EntryStatus, limit, offset int) ([]*models.ContentEntry, error) {
	query := `
		SELECT ` + entryColumns + ` FROM content_entries
		WHERE content_type_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`
	entries, err := r.query(ctx, query, contentTypeID, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	if err := r.loadValues(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of entries of a type, optionally filtered by status
func (r *contentEntryRepo) Count(ctx context.Context, contentTypeID string, status models.EntryStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM content_entries WHERE content_type_id = $1 AND ($2 = '' OR status = $2)",
		contentTypeID, string(status),
	).Scan(&count)
	return count, err
}

// CountAll returns the number of entries across all types
func (r *contentEntryRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content_entries").Scan(&count)
	return count, err
}

// GetFieldValues returns the stored values of one entry in field order
func (r *contentEntryRepo) GetFieldValues(ctx context.Context, entryID string) ([]models.ContentFieldValue, error) {
	entry := &models.ContentEntry{ID: entryID}
	if err := r.loadValues(ctx, []*models.ContentEntry{entry}); err != nil {
		return nil, err
	}
	return entry.FieldValues, nil
}

// UpdateStatus sets the lifecycle status. A nil publishedAt keeps the stored
// publication time.
func (r *contentEntryRepo) UpdateStatus(ctx context.Context, id string, status models.EntryStatus, publishedAt *time.Time) (bool, error) {
	query := `
		UPDATE content_entries SET status = $1, published_at = COALESCE($2, published_at), updated_at = $3
		WHERE id = $4
	`
	return affected(r.db.ExecContext(ctx, query, status, publishedAt, time.Now(), id))
}

// PublishScheduled moves a SCHEDULED entry to PUBLISHED. It reports false when
// the entry is gone or its status changed since it was listed.
func (r *contentEntryRepo) PublishScheduled(ctx context.Context, id string, publishedAt time.Time) (bool, error) {
	query := `
		UPDATE content_entries SET status = $1, published_at = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	return affected(r.db.ExecContext(ctx, query,
		models.EntryStatusPublished, publishedAt, time.Now(), id, models.EntryStatusScheduled,
	))
}

// ListDueScheduled returns scheduled entries whose time has come, oldest first
func (r *contentEntryRepo) ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]*models.ContentEntry, error) {
	query := `
		SELECT ` + entryColumns + ` FROM content_entries
		WHERE status = $1 AND scheduled_at IS NOT NULL AND scheduled_at <= $2
		ORDER BY scheduled_at
		LIMIT $3
	`
	return r.query(ctx, query, models.EntryStatusScheduled, now, limit)
}

// Delete removes an entry; values and tag links cascade
func (r *contentEntryRepo) Delete(ctx context.Context, id string) (bool, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM content_entries WHERE id = $1", id))
}

// StreamByType walks every entry of a type oldest first, in keyset batches
func (r *contentEntryRepo) StreamByType(ctx context.Context, contentTypeID string, callback func(*models.ContentEntry) error) error {
	query := `
		SELECT ` + entryColumns + ` FROM content_entries
		WHERE content_type_id = $1 AND (created_at, id::text) > ($2, $3)
		ORDER BY created_at, id::text
		LIMIT $4
	`
	lastCreated := time.Time{}
	lastID := ""

	for {
		batch, err := r.query(ctx, query, contentTypeID, lastCreated, lastID, streamBatchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := r.loadValues(ctx, batch); err != nil {
			return err
		}

		for _, entry := range batch {
			if err := callback(entry); err != nil {
				return err
			}
		}

		last := batch[len(batch)-1]
		lastCreated, lastID = last.CreatedAt, last.ID
		if len(batch) < streamBatchSize {
			return nil
		}
	}
}

func (r *contentEntryRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.ContentEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.ContentEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// loadValues attaches field values to every entry with a single query
func (r *contentEntryRepo) loadValues(ctx context.Context, entries []*models.ContentEntry) error {
	if len(entries) == 0 {
		return nil
	}

	byID := make(map[string]*models.ContentEntry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		e.FieldValues = []models.ContentFieldValue{}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	query := `
		SELECT v.id, v.entry_id, v.field_id, v.value
		FROM content_field_values v
		JOIN content_fields f ON f.id = v.field_id
		WHERE v.entry_id::text = ANY($1)
		ORDER BY f.sort_order, f.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.ContentFieldValue
		if err := rows.Scan(&v.ID, &v.EntryID, &v.FieldID, &v.Value); err != nil {
			return err
		}
		if e, ok := byID[v.EntryID]; ok {
			e.FieldValues = append(e.FieldValues, v)
		}
	}
	return rows.Err()
}

// copyValues writes entry.FieldValues using PostgreSQL COPY
func copyValues(ctx context.Context, tx *sql.Tx, entry *models.ContentEntry) error {
	if len(entry.FieldValues) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("content_field_values", "id", "entry_id", "field_id", "value"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range entry.FieldValues {
		v := &entry.FieldValues[i]
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		v.EntryID = entry.ID
		if _, err := stmt.ExecContext(ctx, v.ID, v.EntryID, v.FieldID, v.Value); err != nil {
			return err
		}
	}

	_, err = stmt.ExecContext(ctx)
	return err
}

func scanEntry(row rowScanner) (*models.ContentEntry, error) {
	var entry models.ContentEntry
	var slug sql.NullString
	var scheduledAt, publishedAt sql.NullTime

	err := row.Scan(
		&entry.ID, &entry.ContentTypeID, &slug, &entry.Status, &scheduledAt, &publishedAt,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Slug = stringPtr(slug)
	if scheduledAt.Valid {
		entry.ScheduledAt = &scheduledAt.Time
	}
	if publishedAt.Valid {
		entry.PublishedAt = &publishedAt.Time
	}
	return &entry, nil
}
