package storage

import (
	"errors"
	"fmt"
)

// Code categorizes storage failures. The string values are part of the
// persistence contract: callers branch on them to decide retry behavior.
type Code string

const (
	// CodeSerialization indicates a payload could not be encoded or decoded.
	// Non-retryable: the data shape is wrong, retrying reproduces the failure.
	CodeSerialization Code = "json_error"

	// CodeStorage indicates the backend rejected the read or write.
	// Retryable: the condition (lock, quota) is expected to be transient.
	CodeStorage Code = "storage_error"
)

// StoreError is the tagged failure type for all Store operations.
type StoreError struct {
	// Code identifies the failure category.
	Code Code

	// Op names the failing operation ("read", "write").
	Op string

	// Key is the persistence key involved.
	Key string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface. The code prefix is load-bearing:
// it mirrors the "json_error:*" / "storage_error:*" wire format callers
// already match on.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Code, e.Op, e.Key, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Retryable reports whether re-running the operation can succeed.
// Serialization failures are programmer errors and never retryable.
func (e *StoreError) Retryable() bool {
	return e.Code == CodeStorage
}

// IsSerializationError reports whether err is a json_error StoreError.
// Uses errors.As to handle wrapped errors.
func IsSerializationError(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == CodeSerialization
}

// IsStorageError reports whether err is a storage_error StoreError.
// Uses errors.As to handle wrapped errors.
func IsStorageError(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == CodeStorage
}
