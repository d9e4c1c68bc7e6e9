package encoder

import (
	"errors"
	"fmt"
)

// Encoding error codes (E200-E299).
const (
	// Structural errors (E200-E209): violations of the encoder's own
	// SSA/registration invariants. Always fatal, never retried.
	ErrDuplicateBinding  = "E200" // identity bound twice
	ErrUnboundIdentifier = "E201" // lookup before bind

	// Unsupported-subset errors (E210-E219): the input falls outside an
	// operator encoder's modeled subset. Fatal for the whole pass, since
	// a partial formula would be unsound downstream.
	ErrUnsupportedRank          = "E210"
	ErrUnsupportedStride        = "E211"
	ErrUnsupportedArity         = "E212"
	ErrUnsupportedAxis          = "E213"
	ErrUnsupportedMemoryFormat  = "E214"
	ErrUnsupportedReduction     = "E215"
	ErrIndeterminateSize        = "E216"
	ErrUnsupportedConstantShape = "E217"

	// Driver errors (E220-E229).
	ErrMalformedNode   = "E220" // argument structure the encoder cannot read
	ErrDuplicateTarget = "E221" // encoder table registered a target twice
)

// EncodeError represents a fatal error raised during an encoding pass.
// It carries the operator identity and node context that triggered it.
type EncodeError struct {
	Code    string
	Op      string
	Node    string
	Message string
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	switch {
	case e.Op != "" && e.Node != "":
		return fmt.Sprintf("[%s] %s (node=%s): %s", e.Code, e.Op, e.Node, e.Message)
	case e.Node != "":
		return fmt.Sprintf("[%s] node=%s: %s", e.Code, e.Node, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// errCode extracts the code from an error chain, or "".
func errCode(err error) string {
	var ee *EncodeError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsDuplicateBinding reports whether err is a DuplicateBinding error.
func IsDuplicateBinding(err error) bool { return errCode(err) == ErrDuplicateBinding }

// IsUnboundIdentifier reports whether err is an UnboundIdentifier error.
func IsUnboundIdentifier(err error) bool { return errCode(err) == ErrUnboundIdentifier }

// IsUnsupported reports whether err is any unsupported-subset error
// (rank, stride, arity, axis, format, reduction, size, constant shape).
func IsUnsupported(err error) bool {
	switch errCode(err) {
	case ErrUnsupportedRank, ErrUnsupportedStride, ErrUnsupportedArity,
		ErrUnsupportedAxis, ErrUnsupportedMemoryFormat, ErrUnsupportedReduction,
		ErrIndeterminateSize, ErrUnsupportedConstantShape:
		return true
	}
	return false
}

// errf builds an EncodeError with formatted message.
func errf(code, op, node, format string, args ...any) *EncodeError {
	return &EncodeError{Code: code, Op: op, Node: node, Message: fmt.Sprintf(format, args...)}
}
