package storage

import "errors"

// Common client storage errors
var (
	// ErrRecordNotFound indicates that replica record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrNotConflicted indicates that entity is not marked as conflicted
	ErrNotConflicted = errors.New("entity is not conflicted")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
