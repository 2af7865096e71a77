package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound marks a missing target row. Wrapped errors read "<what> not found".
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a unique value that is already taken.
	ErrConflict = errors.New("already exists")
)

// ValidationError is a rejected input field. No row is written when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// notFound turns gorm's record-not-found into ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
