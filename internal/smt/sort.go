package smt

import "fmt"

// Sort identifies the logical sort of an expression.
// The algebra is deliberately small: tensor-valued terms are modeled as
// Real-sorted terms (or uninterpreted applications thereof), indices as
// Integer, side-conditions as Boolean, and lookup tables as Array(Int->Real).
type Sort int

const (
	// SortInteger is the sort of index and axis values.
	SortInteger Sort = iota
	// SortReal is the sort of scalar and tensor-valued terms.
	SortReal
	// SortBoolean is the sort of preconditions and side-conditions.
	SortBoolean
	// SortArray is the sort of Int->Real lookup tables (embedding weights).
	SortArray
)

// String returns the SMT-LIB spelling of the sort.
func (s Sort) String() string {
	switch s {
	case SortInteger:
		return "Int"
	case SortReal:
		return "Real"
	case SortBoolean:
		return "Bool"
	case SortArray:
		return "(Array Int Real)"
	default:
		return fmt.Sprintf("Sort(%d)", int(s))
	}
}

// IsNumeric reports whether the sort participates in arithmetic.
func (s Sort) IsNumeric() bool {
	return s == SortInteger || s == SortReal
}

// joinNumeric returns the sort of an arithmetic combination of two
// numeric sorts: Integer only when both sides are Integer.
func joinNumeric(a, b Sort) Sort {
	if a == SortInteger && b == SortInteger {
		return SortInteger
	}
	return SortReal
}
