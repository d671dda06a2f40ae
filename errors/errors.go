// Package errors provides error types and handling for upload operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents an upload operation error with context about the operation
// that failed. It wraps the underlying error with additional context for
// better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "negotiate", "transfer", "confirm")
	Op string

	// Record is the batch record identifier (if assigned)
	Record string

	// Filename is the object filename (if applicable)
	Filename string

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Record != "" && e.Filename != "" {
		return fmt.Sprintf("uplink.%s %s/%s: %v", e.Op, e.Record, e.Filename, e.Err)
	}
	if e.Record != "" {
		return fmt.Sprintf("uplink.%s record %s: %v", e.Op, e.Record, e.Err)
	}
	if e.Filename != "" {
		return fmt.Sprintf("uplink.%s object %s: %v", e.Op, e.Filename, e.Err)
	}
	return fmt.Sprintf("uplink.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithRecord adds record context to an existing error.
func (e *Error) WithRecord(record string) *Error {
	e.Record = record
	return e
}

// WithFilename adds object filename context to an existing error.
func (e *Error) WithFilename(filename string) *Error {
	e.Filename = filename
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Sentinel errors for common upload failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("uplink: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("uplink: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("uplink: invalid object key")

	// ErrEmptyBatch indicates that the batch contains no objects
	ErrEmptyBatch = errors.New("uplink: batch contains no objects")

	// ErrDuplicateFilename indicates that two objects in a batch share a filename
	ErrDuplicateFilename = errors.New("uplink: duplicate filename in batch")
)

// SigningError indicates that a request could not be signed because the
// signing input was malformed. It is never retried.
type SigningError struct {
	// Reason describes what was wrong with the signing input
	Reason string
}

// Error implements the error interface.
func (e *SigningError) Error() string {
	return fmt.Sprintf("uplink: signing failed: %s", e.Reason)
}

// NegotiationError indicates that the negotiating API rejected or failed the
// slot-allocation request.
type NegotiationError struct {
	// StatusCode is the HTTP status returned by the negotiating API,
	// or 0 for transport-level failures
	StatusCode int

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface.
func (e *NegotiationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("uplink: negotiation failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("uplink: negotiation failed with status %d", e.StatusCode)
}

// Unwrap returns the underlying error for error chaining support.
func (e *NegotiationError) Unwrap() error {
	return e.Err
}

// TransferError indicates that a single object transfer failed.
// A zero StatusCode means the failure happened below HTTP (DNS, connection,
// body write), not that the store rejected the request.
type TransferError struct {
	// Filename is the object whose transfer failed (if known)
	Filename string

	// StatusCode is the HTTP status returned by the store, or 0 for
	// transport-level failures
	StatusCode int

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface.
func (e *TransferError) Error() string {
	switch {
	case e.Filename != "" && e.Err != nil:
		return fmt.Sprintf("uplink: transfer of %s failed (status %d): %v", e.Filename, e.StatusCode, e.Err)
	case e.Filename != "":
		return fmt.Sprintf("uplink: transfer of %s failed with status %d", e.Filename, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("uplink: transfer failed (status %d): %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("uplink: transfer failed with status %d", e.StatusCode)
	}
}

// Unwrap returns the underlying error for error chaining support.
func (e *TransferError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure class can succeed on retry.
// Transport failures and 5xx responses are retryable; 4xx responses are not.
func (e *TransferError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// ConfirmationError indicates that the confirmation phase failed, including
// the case where the negotiating API returned HTTP 200 with success=false.
// The transferred objects may already exist on the store unconfirmed; the
// caller must reconcile that out of band.
type ConfirmationError struct {
	// Record is the record identifier whose confirmation failed
	Record string

	// StatusCode is the HTTP status returned by the negotiating API
	StatusCode int

	// Message is the failure message carried in the response body, if any
	Message string
}

// Error implements the error interface.
func (e *ConfirmationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("uplink: confirmation of %s failed: %s (status %d)", e.Record, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("uplink: confirmation of %s failed with status %d", e.Record, e.StatusCode)
}

// MissingSlotError indicates that an object in the batch has no matching
// negotiated upload slot. This is a protocol mismatch and fatal for the batch.
type MissingSlotError struct {
	// Filename is the object filename with no negotiated slot
	Filename string
}

// Error implements the error interface.
func (e *MissingSlotError) Error() string {
	return fmt.Sprintf("uplink: no upload slot for object %s", e.Filename)
}

// IsRetryable checks if an error represents a transfer failure that can
// succeed on retry. Only transport-level and 5xx transfer failures qualify.
func IsRetryable(err error) bool {
	var te *TransferError
	return errors.As(err, &te) && te.Retryable()
}

// IsMissingSlot checks if an error indicates an object without a negotiated slot.
func IsMissingSlot(err error) bool {
	var me *MissingSlotError
	return errors.As(err, &me)
}

// IsConfirmation checks if an error came from the confirmation phase.
func IsConfirmation(err error) bool {
	var ce *ConfirmationError
	return errors.As(err, &ce)
}

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
