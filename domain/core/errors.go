package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Precondition errors
	ErrEmptyDataset     = errors.New("dataset has no rows")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrNoTrainableModel = errors.New("no trainable model")
	ErrStageFailed      = errors.New("pipeline stage failed")
	ErrStageTimeout     = fmt.Errorf("%w: timeout", ErrStageFailed)
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewEmptyDatasetError(stage string) error {
	return fmt.Errorf("%w: %s requires at least one row", ErrEmptyDataset, stage)
}

func NewInsufficientDataError(stage string, reason string) error {
	return fmt.Errorf("%w in %s: %s", ErrInsufficientData, stage, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPreconditionError reports errors that retrying cannot fix.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrNoTrainableModel)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}
