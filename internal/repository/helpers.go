package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/content-modeling-api/internal/slug"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures
const uniqueViolation = pq.ErrorCode("23505")

// fieldNameConstraint guards field names within a content type
const fieldNameConstraint = "content_fields_type_name_key"

// ErrFieldNameConflict is returned when a field name is already used within its type
var ErrFieldNameConflict = errors.New("field name already exists")

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// mapConflict turns unique violations into slug.ErrConflict so callers can
// retry. Field name violations are not retryable and map to ErrFieldNameConflict.
func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if pqErr.Constraint == fieldNameConstraint {
			return fmt.Errorf("%w: %s", ErrFieldNameConflict, pqErr.Detail)
		}
		return fmt.Errorf("%w: %s", slug.ErrConflict, pqErr.Constraint)
	}
	return err
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func affected(result sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
