package dingostore

import (
	"errors"
	"fmt"
)

var (
	// ErrVectorInvalid is the class of validation failures on vector input
	// (dimension mismatch, malformed payload).
	ErrVectorInvalid = errors.New("vector invalid")

	// ErrNotSupported is returned when an operation requests something the
	// exact float index cannot do, such as searching a binary vector.
	ErrNotSupported = errors.New("not supported")

	// ErrIndexNotFound is the class of resolution failures: the coordinator
	// has no matching index definition, or the definition it returned fails
	// structural validation.
	ErrIndexNotFound = errors.New("index not found")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// It unwraps to ErrVectorInvalid, so callers can match the class with
// errors.Is and recover the exact dimensions with errors.As.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return ErrVectorInvalid }
