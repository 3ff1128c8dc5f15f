package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/content-modeling-api/internal/bulk"
	"github.com/content-modeling-api/internal/validation"
)

var (
	// ErrNotFound is wrapped by every lookup failure below
	ErrNotFound = errors.New("not found")

	ErrContentTypeNotFound = fmt.Errorf("content type %w", ErrNotFound)
	ErrFieldNotFound       = fmt.Errorf("field %w", ErrNotFound)
	ErrEntryNotFound       = fmt.Errorf("entry %w", ErrNotFound)
	ErrTagNotFound         = fmt.Errorf("tag %w", ErrNotFound)
	ErrMediaNotFound       = fmt.Errorf("media %w", ErrNotFound)

	// ErrInvalidInput marks request validation failures
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfirmationRequired is returned for bulk actions submitted without confirmation
	ErrConfirmationRequired = errors.New("confirmation required")
)

// InputError carries the individual validation failures of a request
type InputError struct {
	Errors []validation.ValidationError
}

func (e *InputError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		msgs = append(msgs, ve.Error())
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrInvalidInput) hold
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(errs []validation.ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return &InputError{Errors: errs}
}

func invalidf(field, format string, args ...interface{}) error {
	return invalid([]validation.ValidationError{{Field: field, Message: fmt.Sprintf(format, args...)}})
}

// ConfirmationError is returned when a bulk action needs explicit confirmation
type ConfirmationError struct {
	Action bulk.Action
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfirmationRequired, e.Action.ID)
}

// Is makes errors.Is(err, ErrConfirmationRequired) hold
func (e *ConfirmationError) Is(target error) bool {
	return target == ErrConfirmationRequired
}
