package smt

import "math/big"

// Constant wraps a literal float value as a Real-sorted constant.
func Constant(v float64) Expr {
	r := new(big.Rat)
	r.SetFloat64(v)
	return Const{value: r, sort: SortReal}
}

// IntConstant wraps a literal integer as an Integer-sorted constant.
func IntConstant(v int64) Expr {
	return Const{value: new(big.Rat).SetInt64(v), sort: SortInteger}
}

// Zero is the Real constant 0, used as the default linear-layer bias.
func Zero() Expr { return Constant(0) }

// Variable creates a fresh named symbol of Real sort. Free/unbound
// graph inputs are modeled this way.
func Variable(name string) Expr {
	return Var{Name: name, sort: SortReal}
}

// TypedVariable creates a named symbol of an explicit sort.
func TypedVariable(name string, sort Sort) Expr {
	return Var{Name: name, sort: sort}
}

// UninterpretedCall applies an uninterpreted function symbol to ordered
// arguments. The result is Real-sorted: uninterpreted applications stand
// for tensor-valued operations whose exact semantics are not modeled.
func UninterpretedCall(fn string, args ...Expr) Expr {
	return Call{Fn: fn, Args: args, sort: SortReal}
}

// Conjunction combines two Boolean expressions with logical AND.
func Conjunction(a, b Expr) (Expr, error) {
	if a.Sort() != SortBoolean || b.Sort() != SortBoolean {
		return nil, mismatch("and", a.Sort(), b.Sort())
	}
	return Binary{Op: OpAnd, Left: a, Right: b, sort: SortBoolean}, nil
}

// Disjunction combines two Boolean expressions with logical OR.
func Disjunction(a, b Expr) (Expr, error) {
	if a.Sort() != SortBoolean || b.Sort() != SortBoolean {
		return nil, mismatch("or", a.Sort(), b.Sort())
	}
	return Binary{Op: OpOr, Left: a, Right: b, sort: SortBoolean}, nil
}

// Not negates a Boolean expression.
func Not(a Expr) (Expr, error) {
	if a.Sort() != SortBoolean {
		return nil, mismatch("not", a.Sort())
	}
	return Unary{Op: OpNot, Operand: a, sort: SortBoolean}, nil
}

func arith(op BinOp, a, b Expr) (Expr, error) {
	if !a.Sort().IsNumeric() || !b.Sort().IsNumeric() {
		return nil, mismatch(string(op), a.Sort(), b.Sort())
	}
	return Binary{Op: op, Left: a, Right: b, sort: joinNumeric(a.Sort(), b.Sort())}, nil
}

// Add builds a + b for numeric operands.
func Add(a, b Expr) (Expr, error) { return arith(OpAdd, a, b) }

// Sub builds a - b for numeric operands.
func Sub(a, b Expr) (Expr, error) { return arith(OpSub, a, b) }

// Mul builds a * b for numeric operands.
func Mul(a, b Expr) (Expr, error) { return arith(OpMul, a, b) }

// Div builds a / b for numeric operands.
//
// Div is NOT guarded: a zero divisor is representable. Callers that
// cannot rule out a zero divisor are responsible for registering a
// well-definedness obligation alongside the expression; rejecting the
// division at construction time would make the obligation inseparable
// from the term.
func Div(a, b Expr) (Expr, error) { return arith(OpDiv, a, b) }

// Max builds max(a, b) for numeric operands. Fused ReLU rewrites a
// producer expression e into max(0, e).
func Max(a, b Expr) (Expr, error) { return arith(OpMax, a, b) }

// Neg builds -a for a numeric operand.
func Neg(a Expr) (Expr, error) {
	if !a.Sort().IsNumeric() {
		return nil, mismatch("-", a.Sort())
	}
	return Unary{Op: OpNeg, Operand: a, sort: a.Sort()}, nil
}

// Sqrt builds the real-valued square root of a numeric operand.
// No domain restriction is asserted: callers wanting x >= 0 must record
// it as a well-definedness obligation.
func Sqrt(a Expr) (Expr, error) {
	if !a.Sort().IsNumeric() {
		return nil, mismatch("sqrt", a.Sort())
	}
	return Unary{Op: OpSqrt, Operand: a, sort: SortReal}, nil
}

func compare(op BinOp, a, b Expr) (Expr, error) {
	if !a.Sort().IsNumeric() || !b.Sort().IsNumeric() {
		return nil, mismatch(string(op), a.Sort(), b.Sort())
	}
	return Binary{Op: op, Left: a, Right: b, sort: SortBoolean}, nil
}

// Lt builds a < b.
func Lt(a, b Expr) (Expr, error) { return compare(OpLt, a, b) }

// Le builds a <= b.
func Le(a, b Expr) (Expr, error) { return compare(OpLe, a, b) }

// Eq builds the equality a = b. Operands must share a sort family:
// numeric with numeric, Boolean with Boolean, Array with Array.
func Eq(a, b Expr) (Expr, error) {
	if !sameFamily(a.Sort(), b.Sort()) {
		return nil, mismatch("=", a.Sort(), b.Sort())
	}
	return Binary{Op: OpEq, Left: a, Right: b, sort: SortBoolean}, nil
}

// Ne builds the disequality a != b under the same sort rules as Eq.
func Ne(a, b Expr) (Expr, error) {
	if !sameFamily(a.Sort(), b.Sort()) {
		return nil, mismatch("distinct", a.Sort(), b.Sort())
	}
	return Binary{Op: OpNe, Left: a, Right: b, sort: SortBoolean}, nil
}

// ArraySelect reads an Array(Int->Real) expression at a numeric index.
func ArraySelect(arr, index Expr) (Expr, error) {
	if arr.Sort() != SortArray || !index.Sort().IsNumeric() {
		return nil, mismatch("select", arr.Sort(), index.Sort())
	}
	return Binary{Op: OpSel, Left: arr, Right: index, sort: SortReal}, nil
}

func sameFamily(a, b Sort) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return true
	}
	return a == b
}

// ConjoinAll folds a list of Boolean expressions into a single
// conjunction. An empty list yields the Boolean constant true.
func ConjoinAll(exprs []Expr) (Expr, error) {
	out := Expr(BoolConst(true))
	for _, e := range exprs {
		var err error
		out, err = Conjunction(out, e)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
