package models

import (
	"errors"
	"fmt"
)

// Ошибки движка разрешения конфликтов
var (
	// ErrChecksumMismatch indicates that a stored checksum does not match the fields (data corruption)
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnresolvableField indicates that a field strategy could not merge a field
	ErrUnresolvableField = errors.New("unresolvable field conflict")

	// ErrPolicyExhausted indicates that no automatic resolver succeeded
	ErrPolicyExhausted = errors.New("policy exhausted")

	// ErrStorageCommitFailure indicates that the storage collaborator failed to commit a resolved record
	ErrStorageCommitFailure = errors.New("storage commit failed")

	// ErrCancelledByNewerConflict indicates that a pending user decision was superseded by a newer sync round
	ErrCancelledByNewerConflict = errors.New("cancelled by newer conflict")

	// ErrInvalidRecord indicates that a record is malformed (bad id, field name or value)
	ErrInvalidRecord = errors.New("invalid record")
)

// ChecksumMismatchError описывает запись, checksum которой не совпадает с полями
type ChecksumMismatchError struct {
	RecordID string
	Side     string // local, server или base; заполняется детектором
	Stored   string
	Computed string
	Cause    error
}

func (e *ChecksumMismatchError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("checksum mismatch for %s record %q: stored %s, computed %s", e.Side, e.RecordID, e.Stored, e.Computed)
	}
	return fmt.Sprintf("checksum mismatch for record %q: stored %s, computed %s", e.RecordID, e.Stored, e.Computed)
}

// Is позволяет сравнивать через errors.Is(err, ErrChecksumMismatch)
func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrChecksumMismatch
}

func (e *ChecksumMismatchError) Unwrap() error {
	return e.Cause
}

// UnresolvableFieldError описывает поле, которое не удалось слить автоматически
type UnresolvableFieldError struct {
	Err    error
	Field  string
	Reason string
}

func (e *UnresolvableFieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// Unwrap возвращает причину (например, ошибку размера текста)
func (e *UnresolvableFieldError) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать через errors.Is(err, ErrUnresolvableField)
func (e *UnresolvableFieldError) Is(target error) bool {
	return target == ErrUnresolvableField
}
