package solver

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/roach88/symgraph/internal/smt"
)

// atomSep joins the factors of a nonlinear product term. It cannot occur
// in a rendered atom, so splitting is unambiguous.
const atomSep = "\x00"

// linear is the normal form of a numeric term: a rational constant plus
// a linear combination of atoms. A term key is the sorted list of atom
// factors joined by atomSep, so x*y and y*x share one key.
type linear struct {
	terms    map[string]*big.Rat
	constant *big.Rat
}

func newLinear() *linear {
	return &linear{terms: map[string]*big.Rat{}, constant: new(big.Rat)}
}

func (l *linear) addTerm(key string, c *big.Rat) {
	if key == "" {
		l.constant.Add(l.constant, c)
		return
	}
	cur, ok := l.terms[key]
	if !ok {
		cur = new(big.Rat)
		l.terms[key] = cur
	}
	cur.Add(cur, c)
	if cur.Sign() == 0 {
		delete(l.terms, key)
	}
}

func (l *linear) add(o *linear, scale *big.Rat) {
	c := new(big.Rat).Mul(o.constant, scale)
	l.constant.Add(l.constant, c)
	for k, v := range o.terms {
		l.addTerm(k, new(big.Rat).Mul(v, scale))
	}
}

// isConstant reports whether the form has no atom terms.
func (l *linear) isConstant() bool { return len(l.terms) == 0 }

func (l *linear) equal(o *linear) bool {
	if l.constant.Cmp(o.constant) != 0 || len(l.terms) != len(o.terms) {
		return false
	}
	for k, v := range l.terms {
		ov, ok := o.terms[k]
		if !ok || v.Cmp(ov) != 0 {
			return false
		}
	}
	return true
}

// canon renders the normal form deterministically, for use as an atom
// inside enclosing uninterpreted applications.
func (l *linear) canon() string {
	keys := make([]string, 0, len(l.terms))
	for k := range l.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s*{%s}+", l.terms[k].RatString(), strings.ReplaceAll(k, atomSep, "·"))
	}
	b.WriteString(l.constant.RatString())
	return b.String()
}

// mulKeys merges two product keys into one sorted factor list.
func mulKeys(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	factors := append(strings.Split(a, atomSep), strings.Split(b, atomSep)...)
	sort.Strings(factors)
	return strings.Join(factors, atomSep)
}

// mul expands the product of two normal forms distributively.
func (l *linear) mul(o *linear) *linear {
	out := newLinear()
	out.constant.Mul(l.constant, o.constant)
	if l.constant.Sign() != 0 {
		for k, v := range o.terms {
			out.addTerm(k, new(big.Rat).Mul(v, l.constant))
		}
	}
	if o.constant.Sign() != 0 {
		for k, v := range l.terms {
			out.addTerm(k, new(big.Rat).Mul(v, o.constant))
		}
	}
	for ka, va := range l.terms {
		for kb, vb := range o.terms {
			out.addTerm(mulKeys(ka, kb), new(big.Rat).Mul(va, vb))
		}
	}
	return out
}

// normalize computes the linear normal form of a numeric expression.
func normalize(e smt.Expr) (*linear, error) {
	switch v := e.(type) {
	case smt.Const:
		l := newLinear()
		l.constant = v.Rat()
		return l, nil
	case smt.Var:
		l := newLinear()
		l.addTerm("v:"+v.Name, big.NewRat(1, 1))
		return l, nil
	case smt.Call:
		key, err := callAtom(v)
		if err != nil {
			return nil, err
		}
		l := newLinear()
		l.addTerm(key, big.NewRat(1, 1))
		return l, nil
	case smt.Unary:
		return normalizeUnary(v)
	case smt.Binary:
		return normalizeBinary(v)
	default:
		return nil, fmt.Errorf("solver: cannot normalize %T", e)
	}
}

func normalizeUnary(v smt.Unary) (*linear, error) {
	switch v.Op {
	case smt.OpNeg:
		inner, err := normalize(v.Operand)
		if err != nil {
			return nil, err
		}
		out := newLinear()
		out.add(inner, big.NewRat(-1, 1))
		return out, nil
	case smt.OpSqrt:
		inner, err := normalize(v.Operand)
		if err != nil {
			return nil, err
		}
		l := newLinear()
		l.addTerm("sqrt("+inner.canon()+")", big.NewRat(1, 1))
		return l, nil
	default:
		return nil, fmt.Errorf("solver: unary %q is not numeric", v.Op)
	}
}

func normalizeBinary(v smt.Binary) (*linear, error) {
	switch v.Op {
	case smt.OpAdd, smt.OpSub:
		left, err := normalize(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := normalize(v.Right)
		if err != nil {
			return nil, err
		}
		scale := big.NewRat(1, 1)
		if v.Op == smt.OpSub {
			scale = big.NewRat(-1, 1)
		}
		out := newLinear()
		out.add(left, big.NewRat(1, 1))
		out.add(right, scale)
		return out, nil
	case smt.OpMul:
		left, err := normalize(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := normalize(v.Right)
		if err != nil {
			return nil, err
		}
		return left.mul(right), nil
	case smt.OpDiv:
		left, err := normalize(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := normalize(v.Right)
		if err != nil {
			return nil, err
		}
		if right.isConstant() && right.constant.Sign() != 0 {
			out := newLinear()
			out.add(left, new(big.Rat).Inv(right.constant))
			return out, nil
		}
		// Symbolic divisor: the quotient is an irreducible atom.
		l := newLinear()
		l.addTerm("div("+left.canon()+","+right.canon()+")", big.NewRat(1, 1))
		return l, nil
	case smt.OpMax:
		left, err := normalize(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := normalize(v.Right)
		if err != nil {
			return nil, err
		}
		l := newLinear()
		l.addTerm("max("+left.canon()+","+right.canon()+")", big.NewRat(1, 1))
		return l, nil
	case smt.OpSel:
		key, err := atomRender(v.Left)
		if err != nil {
			return nil, err
		}
		idx, err := normalize(v.Right)
		if err != nil {
			return nil, err
		}
		l := newLinear()
		l.addTerm("sel("+key+","+idx.canon()+")", big.NewRat(1, 1))
		return l, nil
	default:
		return nil, fmt.Errorf("solver: binary %q is not numeric", v.Op)
	}
}

// callAtom renders an uninterpreted application as an atom key. Each
// argument is rendered by its own normal form, so arguments that are
// semantically equal (x+y vs y+x) yield the same symbol application.
func callAtom(c smt.Call) (string, error) {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Fn)
	for _, a := range c.Args {
		r, err := atomRender(a)
		if err != nil {
			return "", err
		}
		parts = append(parts, r)
	}
	return "f(" + strings.Join(parts, ";") + ")", nil
}

// atomRender renders any expression for embedding inside an atom key.
func atomRender(e smt.Expr) (string, error) {
	switch e.Sort() {
	case smt.SortBoolean:
		return canonBool(e)
	case smt.SortArray:
		switch v := e.(type) {
		case smt.Var:
			return "a:" + v.Name, nil
		case smt.Call:
			return callAtom(v)
		default:
			return "", fmt.Errorf("solver: cannot render array expression %T", e)
		}
	default:
		l, err := normalize(e)
		if err != nil {
			return "", err
		}
		return l.canon(), nil
	}
}
