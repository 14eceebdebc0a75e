package store

import "fmt"

// StorageError wraps a persistence failure with a stable message for callers
// that only care whether storage worked.
type StorageError struct {
	Message       string
	OriginalError error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s (original error: %v)", e.Message, e.OriginalError)
}

func (e *StorageError) Unwrap() error {
	return e.OriginalError
}

func NewStorageError(message string, originalError error) *StorageError {
	return &StorageError{Message: message, OriginalError: originalError}
}
