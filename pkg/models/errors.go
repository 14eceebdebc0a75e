package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ErrUnavailable signals that an external capability (classifier, trainer,
// catalog) could not be reached. The resolver maps this to a graceful
// fallback response; the learning loop surfaces it.
var ErrUnavailable = errors.New("capability unavailable")

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

type UnavailableError struct {
	Capability    string
	OriginalError error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable (original error: %v)", e.Capability, e.OriginalError)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func NewUnavailableError(capability string, originalError error) error {
	return &UnavailableError{Capability: capability, OriginalError: originalError}
}
