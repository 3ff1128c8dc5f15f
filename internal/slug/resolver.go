package slug

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxAttempts bounds conflict-triggered retries in CreateUnique
const DefaultMaxAttempts = 5

// ErrConflict is reported by an insert when the slug unique constraint rejects
// the candidate, typically because a concurrent writer claimed it first.
var ErrConflict = errors.New("slug already in use")

// ExistsFunc reports whether candidate is already taken in the caller's scope.
// Scope (global, per content type) and any excluded entity are closed over.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// InsertFunc persists the entity under candidate, returning ErrConflict on a
// uniqueness violation.
type InsertFunc func(ctx context.Context, candidate string) error

// Candidate returns the n-th element of the sequence base, base-1, base-2, ...
func Candidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// Resolve returns the first candidate for which exists reports no conflict.
// It has no side effects; the caller persists the result.
func Resolve(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := Candidate(base, n)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
}

// CreateUnique resolves a free candidate and inserts it. When the insert loses
// a race against the unique constraint, resolution restarts and the insert is
// retried, at most maxAttempts times.
func CreateUnique(ctx context.Context, base string, exists ExistsFunc, insert InsertFunc, maxAttempts int) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := Resolve(ctx, base, exists)
		if err != nil {
			return "", err
		}

		err = insert(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, ErrConflict) {
			return "", err
		}
	}

	return "", fmt.Errorf("gave up after %d attempts for slug %q: %w", maxAttempts, base, ErrConflict)
}
