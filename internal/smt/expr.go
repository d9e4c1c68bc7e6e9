package smt

import (
	"fmt"
	"math/big"
	"strings"
)

// Expr is a sealed interface over the expression variants.
// Only Const, BoolConst, Var, Call, Binary, and Unary implement it.
// Expressions are immutable values: constructors validate sort
// compatibility once and the tree is never mutated afterwards.
type Expr interface {
	expr() // Sealed - only these types implement it

	// Sort returns the logical sort of the expression.
	Sort() Sort

	// String renders the expression in SMT-LIB style s-expression form.
	// The rendering is deterministic and is what gets serialized into
	// encoding artifacts, so it must be stable across runs.
	String() string
}

// Const is a numeric constant of Integer or Real sort.
// The value is kept as an exact rational so that repeated arithmetic on
// constants stays exact (the solver relies on this).
type Const struct {
	value *big.Rat
	sort  Sort
}

func (Const) expr() {}

// Sort implements Expr.
func (c Const) Sort() Sort { return c.sort }

// Rat returns the exact value of the constant.
func (c Const) Rat() *big.Rat { return new(big.Rat).Set(c.value) }

// String implements Expr.
func (c Const) String() string {
	if c.value.IsInt() {
		return c.value.Num().String()
	}
	// SMT-LIB has no rational literals; render as a division.
	return fmt.Sprintf("(/ %s %s)", c.value.Num().String(), c.value.Denom().String())
}

// BoolConst is the Boolean constant true or false.
type BoolConst bool

func (BoolConst) expr() {}

// Sort implements Expr.
func (BoolConst) Sort() Sort { return SortBoolean }

// String implements Expr.
func (b BoolConst) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Var is a free named symbol.
type Var struct {
	Name string
	sort Sort
}

func (Var) expr() {}

// Sort implements Expr.
func (v Var) Sort() Sort { return v.sort }

// String implements Expr.
func (v Var) String() string { return v.Name }

// Call is an application of an uninterpreted function symbol to ordered
// arguments. The symbol name is derived deterministically from the
// operator and its shape/axis parameters, so structurally identical
// operations produce syntactically identical symbols.
type Call struct {
	Fn   string
	Args []Expr
	sort Sort
}

func (Call) expr() {}

// Sort implements Expr.
func (c Call) Sort() Sort { return c.sort }

// String implements Expr.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Fn
	}
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Fn)
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// BinOp identifies a binary operator.
type BinOp string

// Binary operators. Arithmetic operators require numeric operands,
// logical operators require Boolean operands, comparisons require
// numeric operands of any mix, and Select requires an Array on the left.
const (
	OpAdd BinOp = "+"
	OpSub BinOp = "-"
	OpMul BinOp = "*"
	OpDiv BinOp = "/"
	OpMax BinOp = "max"
	OpAnd BinOp = "and"
	OpOr  BinOp = "or"
	OpEq  BinOp = "="
	OpNe  BinOp = "distinct"
	OpLt  BinOp = "<"
	OpLe  BinOp = "<="
	OpSel BinOp = "select"
)

// Binary is the application of a binary operator to two operands.
type Binary struct {
	Op    BinOp
	Left  Expr
	Right Expr
	sort  Sort
}

func (Binary) expr() {}

// Sort implements Expr.
func (b Binary) Sort() Sort { return b.sort }

// String implements Expr.
func (b Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op, b.Left.String(), b.Right.String())
}

// UnOp identifies a unary operator.
type UnOp string

// Unary operators.
const (
	OpNeg  UnOp = "-"
	OpNot  UnOp = "not"
	OpSqrt UnOp = "sqrt"
)

// Unary is the application of a unary operator to one operand.
type Unary struct {
	Op      UnOp
	Operand Expr
	sort    Sort
}

func (Unary) expr() {}

// Sort implements Expr.
func (u Unary) Sort() Sort { return u.sort }

// String implements Expr.
func (u Unary) String() string {
	return fmt.Sprintf("(%s %s)", u.Op, u.Operand.String())
}
