package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/symgraph/internal/smt"
)

// Result is the outcome of a satisfiability check.
type Result int

const (
	// Sat means a satisfying assignment exists.
	Sat Result = iota
	// Unsat means no satisfying assignment exists.
	Unsat
	// Unknown means the goal falls outside the decided fragment.
	Unknown
)

// String returns the conventional solver spelling of the result.
func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Context is a scoped checking resource. It carries no state between
// checks; callers acquire one per check and discard it, matching the
// single-pass ownership discipline of the encoder.
type Context struct{}

// NewContext acquires a checking context.
func NewContext() *Context { return &Context{} }

// Check decides satisfiability of a Boolean goal. The decided fragment
// is negated or direct (dis)equalities between numeric terms; anything
// else reports Unknown.
func (c *Context) Check(goal smt.Expr) (Result, error) {
	if goal.Sort() != smt.SortBoolean {
		return Unknown, fmt.Errorf("solver: goal must be Boolean, got %s", goal.Sort())
	}
	if u, ok := goal.(smt.Unary); ok && u.Op == smt.OpNot {
		if b, ok := u.Operand.(smt.Binary); ok && b.Op == smt.OpEq {
			return c.checkDistinct(b.Left, b.Right)
		}
	}
	if b, ok := goal.(smt.Binary); ok {
		switch b.Op {
		case smt.OpNe:
			return c.checkDistinct(b.Left, b.Right)
		case smt.OpEq:
			// An equality between terms with equal normal forms is
			// valid, hence satisfiable. Distinct normal forms still
			// admit an assignment making both sides equal, so the
			// equality itself is never Unsat in this fragment.
			return Sat, nil
		}
	}
	return Unknown, nil
}

// checkDistinct decides satisfiability of left != right.
func (c *Context) checkDistinct(left, right smt.Expr) (Result, error) {
	eq, err := equalForms(left, right)
	if err != nil {
		return Unknown, err
	}
	if eq {
		// The equality is an identity, so its negation has no model.
		return Unsat, nil
	}
	// Distinct normal forms over independent atoms always admit a
	// distinguishing assignment.
	return Sat, nil
}

// Equivalent reports whether two expressions are semantically equal:
// the negation of their equality is unsatisfiable. This is the sole
// semantic comparison primitive; everything else is structural.
func Equivalent(a, b smt.Expr) (bool, error) {
	eq, err := smt.Eq(a, b)
	if err != nil {
		return false, err
	}
	neg, err := smt.Not(eq)
	if err != nil {
		return false, err
	}
	ctx := NewContext()
	res, err := ctx.Check(neg)
	if err != nil {
		return false, err
	}
	return res == Unsat, nil
}

func equalForms(a, b smt.Expr) (bool, error) {
	if a.Sort() == smt.SortBoolean && b.Sort() == smt.SortBoolean {
		ca, err := canonBool(a)
		if err != nil {
			return false, err
		}
		cb, err := canonBool(b)
		if err != nil {
			return false, err
		}
		return ca == cb, nil
	}
	la, err := normalize(a)
	if err != nil {
		return false, err
	}
	lb, err := normalize(b)
	if err != nil {
		return false, err
	}
	return la.equal(lb), nil
}

// canonBool renders a Boolean expression canonically: conjunctions and
// disjunctions are flattened, sorted, and deduplicated, double negation
// collapses, and comparisons are normalized as linear forms.
func canonBool(e smt.Expr) (string, error) {
	switch v := e.(type) {
	case smt.BoolConst:
		return v.String(), nil
	case smt.Var:
		return "v:" + v.Name, nil
	case smt.Call:
		return callAtom(v)
	case smt.Unary:
		if v.Op != smt.OpNot {
			return "", fmt.Errorf("solver: unary %q is not Boolean", v.Op)
		}
		if inner, ok := v.Operand.(smt.Unary); ok && inner.Op == smt.OpNot {
			return canonBool(inner.Operand)
		}
		c, err := canonBool(v.Operand)
		if err != nil {
			return "", err
		}
		return "(not " + c + ")", nil
	case smt.Binary:
		return canonBoolBinary(v)
	default:
		return "", fmt.Errorf("solver: cannot canonicalize %T", e)
	}
}

func canonBoolBinary(v smt.Binary) (string, error) {
	switch v.Op {
	case smt.OpAnd, smt.OpOr:
		children, err := flatten(v.Op, v)
		if err != nil {
			return "", err
		}
		sort.Strings(children)
		children = dedupe(children)
		if len(children) == 0 {
			// All leaves were identity constants.
			if v.Op == smt.OpAnd {
				return "true", nil
			}
			return "false", nil
		}
		if len(children) == 1 {
			return children[0], nil
		}
		return "(" + string(v.Op) + " " + strings.Join(children, " ") + ")", nil
	case smt.OpEq, smt.OpNe:
		// Render both operand forms and order them, so a=b and b=a agree.
		l, err := atomRender(v.Left)
		if err != nil {
			return "", err
		}
		r, err := atomRender(v.Right)
		if err != nil {
			return "", err
		}
		if l > r {
			l, r = r, l
		}
		return "(" + string(v.Op) + " " + l + " " + r + ")", nil
	case smt.OpLt, smt.OpLe:
		l, err := atomRender(v.Left)
		if err != nil {
			return "", err
		}
		r, err := atomRender(v.Right)
		if err != nil {
			return "", err
		}
		return "(" + string(v.Op) + " " + l + " " + r + ")", nil
	default:
		return "", fmt.Errorf("solver: binary %q is not Boolean", v.Op)
	}
}

// flatten collects the leaves of a nested same-operator conjunction or
// disjunction, dropping identity constants.
func flatten(op smt.BinOp, e smt.Expr) ([]string, error) {
	if b, ok := e.(smt.Binary); ok && b.Op == op {
		left, err := flatten(op, b.Left)
		if err != nil {
			return nil, err
		}
		right, err := flatten(op, b.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	}
	if bc, ok := e.(smt.BoolConst); ok {
		identity := op == smt.OpAnd
		if bool(bc) == identity {
			return nil, nil
		}
	}
	c, err := canonBool(e)
	if err != nil {
		return nil, err
	}
	return []string{c}, nil
}

func dedupe(sorted []string) []string {
	if len(sorted) == 0 {
		return nil
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
