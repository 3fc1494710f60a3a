// Package domain holds the typed application errors shared by the
// service and HTTP layers.
package domain

import "fmt"

// ErrorKind classifies an AppError for HTTP status mapping.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindForbidden  ErrorKind = "forbidden"
	KindStorage    ErrorKind = "storage"
)

// AppError is a typed application error. The HTTP layer maps its kind to
// a status code; everything else treats it as a plain error.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewNotFoundError reports a missing resource by type and identifier.
func NewNotFoundError(resource, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with id: %s", resource, id)}
}

// NewValidationError reports rejected caller input.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewConflictError reports a lost optimistic-concurrency race.
func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewForbiddenError reports an authorization failure.
func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// NewStorageError reports an environment failure while touching durable
// storage.
func NewStorageError(message string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: message, Err: err}
}
