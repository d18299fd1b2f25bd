package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage error")
	ErrExtractionFailed  = errors.New("extraction failed")
	ErrExtractorDisabled = errors.New("voice extraction is not configured")
	ErrInvalidUnit       = errors.New("invalid unit")
	ErrUnitMismatch      = errors.New("no conversion between units")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// storage wraps a store failure so callers can match both ErrStorage and the
// driver error. Record-not-found becomes ErrNotFound.
func storage(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
