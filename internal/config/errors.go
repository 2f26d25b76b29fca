package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration loading.
var (
	// ErrFileNotFound is returned when an explicitly named config file is missing.
	ErrFileNotFound = errors.New("config file not found")

	// ErrValidationFailed wraps every ValidationError.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError describes a setting with an unusable value.
type ValidationError struct {
	Path    string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Unwrap makes every ValidationError match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
