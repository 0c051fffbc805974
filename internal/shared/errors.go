// Package shared holds the error taxonomy and small cross-cutting helpers.
package shared

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInsufficientStock indicates an outbound movement would drive a
	// product quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError rejects malformed input before it reaches the store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StoreError wraps an underlying persistence failure with the failing operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store wraps err into a StoreError unless it already belongs to the taxonomy.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrInsufficientStock) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsTimeout reports whether err represents a store timeout. The outcome of the
// interrupted write is unknown to the caller.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
