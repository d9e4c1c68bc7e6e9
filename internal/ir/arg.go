package ir

import (
	"fmt"
	"strings"
)

// Arg is a sealed interface over node argument variants.
// Only NodeRef, IntArg, FloatArg, BoolArg, IntsArg, ListArg, and
// NoneArg implement it.
type Arg interface {
	arg() // Sealed - only these types implement it
}

// NodeRef references another node in the same graph.
type NodeRef struct {
	Node *Node
}

func (NodeRef) arg() {}

// IntArg is a literal integer argument (a dim, axis, or index).
type IntArg int64

func (IntArg) arg() {}

// FloatArg is a literal float argument (a scale or epsilon).
type FloatArg float64

func (FloatArg) arg() {}

// BoolArg is a literal boolean argument (keepdim and similar flags).
type BoolArg bool

func (BoolArg) arg() {}

// StrArg is a literal string argument (memory-format hints).
type StrArg string

func (StrArg) arg() {}

// IntsArg is a literal integer list (a shape, permutation, or dim list).
type IntsArg []int

func (IntsArg) arg() {}

// ListArg is an ordered list of arguments (concat inputs, index lists).
type ListArg []Arg

func (ListArg) arg() {}

// NoneArg is an explicitly absent argument (e.g. a missing bias).
type NoneArg struct{}

func (NoneArg) arg() {}

// FormatArg renders an argument for diagnostics.
func FormatArg(a Arg) string {
	switch v := a.(type) {
	case NodeRef:
		if v.Node == nil {
			return "%<nil>"
		}
		return "%" + v.Node.Key()
	case IntArg:
		return fmt.Sprintf("%d", int64(v))
	case FloatArg:
		return fmt.Sprintf("%g", float64(v))
	case BoolArg:
		return fmt.Sprintf("%t", bool(v))
	case StrArg:
		return fmt.Sprintf("%q", string(v))
	case IntsArg:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = fmt.Sprint(n)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ListArg:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = FormatArg(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case NoneArg:
		return "none"
	default:
		return fmt.Sprintf("%v", a)
	}
}
