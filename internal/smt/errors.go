package smt

import (
	"errors"
	"fmt"
)

// Construction error codes (E010-E019).
const (
	// ErrCodeTypeMismatch indicates operands of incompatible sort.
	ErrCodeTypeMismatch = "E010"
)

// TypeMismatchError is returned when an expression constructor is given
// operands of incompatible sort. Expressions are validated once at
// construction, so a tree that exists is always well-sorted.
type TypeMismatchError struct {
	Op    string
	Sorts []Sort
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("[%s] %s: incompatible operand sorts %v", ErrCodeTypeMismatch, e.Op, e.Sorts)
}

// IsTypeMismatch reports whether err is (or wraps) a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	var t *TypeMismatchError
	return errors.As(err, &t)
}

func mismatch(op string, sorts ...Sort) error {
	return &TypeMismatchError{Op: op, Sorts: sorts}
}
