package recipestate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for events missing the recipe id or title.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrStorage wraps any failure of the underlying database, including
	// failed commits and lock timeouts.
	ErrStorage = errors.New("storage error")
	// ErrConflict is reserved for optimistic concurrency; the coordinator
	// locks pessimistically and never returns it.
	ErrConflict = errors.New("conflict")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func invalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}
