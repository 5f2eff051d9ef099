package images

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("image not found")

	// ErrMissingOwner is fatal for ingestion: the key has no usable first segment.
	ErrMissingOwner = errors.New("storage key has no owner segment")
)

const (
	ServiceStorage  = "storage"
	ServiceAnalysis = "analysis"
	ServiceDatabase = "database"
)

// ValidationError is a missing or malformed request parameter.
// Msg is safe to show to API callers.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for field.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// ExternalServiceError wraps a failed call to storage, analysis or the database.
type ExternalServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// PersistenceError means analysis succeeded but the record write failed.
// The record is lost; redelivery of the trigger recomputes it.
type PersistenceError struct {
	ImageID ImageID
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist image %s: %v", e.ImageID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
