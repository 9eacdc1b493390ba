package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrColumnMissing    = errors.New("required column missing")
	ErrEmptyResource    = errors.New("resource has no data rows")
	ErrUnsupportedInput = errors.New("unsupported input format")

	// Validation errors
	ErrInvalidCriteria = errors.New("invalid filter criteria")
	ErrInvalidYear     = errors.New("year is not an integer")

	// Lookup errors
	ErrIndicatorNotFound = errors.New("indicator not found")

	// Analysis conditions
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewColumnMissingError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnMissing, column)
}

func NewCriteriaError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidCriteria, reason)
}

func NewIndicatorNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrIndicatorNotFound, name)
}

// Error checking helpers
func IsLoadError(err error) bool {
	return errors.Is(err, ErrColumnMissing) ||
		errors.Is(err, ErrEmptyResource) ||
		errors.Is(err, ErrUnsupportedInput)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidCriteria) ||
		errors.Is(err, ErrInvalidYear)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrIndicatorNotFound)
}
