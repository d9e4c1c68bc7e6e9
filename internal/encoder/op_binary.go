package encoder

import (
	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
)

// Elementwise binary operators: add, sub, mul, div. Each combines its
// two operand expressions directly and participates in ReLU fusion.

// reluFusedUser returns the single consuming ReLU node when the
// producer has exactly one user and that user is a ReLU call. A
// producer with two or more consumers never fuses, even if one of them
// is a ReLU.
func reluFusedUser(n *ir.Node) *ir.Node {
	users := n.Users()
	if len(users) != 1 {
		return nil
	}
	u := users[0]
	if u.Kind == ir.KindCall && u.Op == OpRelu {
		return u
	}
	return nil
}

type binOp func(a, b smt.Expr) (smt.Expr, error)

// encodeBinary implements the shared elementwise-binary protocol:
// resolve both operands, combine, handle ReLU fusion, bind, return.
//
// Under fusion the max-expression is bound to the CONSUMER node's
// identity while the raw combination is still bound to the producer;
// both bindings remain independently retrievable.
func encodeBinary(p *pass, n *ir.Node, combine binOp) (smt.Expr, error) {
	if len(n.Args) < 2 {
		return nil, errf(ErrMalformedNode, n.Op, n.Key(), "expected 2 arguments, got %d", len(n.Args))
	}
	a, err := p.operand(n, n.Args[0])
	if err != nil {
		return nil, err
	}
	b, err := p.operand(n, n.Args[1])
	if err != nil {
		return nil, err
	}
	result, err := combine(a, b)
	if err != nil {
		return nil, err
	}

	if fused := reluFusedUser(n); fused != nil {
		relu, err := smt.Max(smt.Zero(), result)
		if err != nil {
			return nil, err
		}
		if err := p.st.Regs().Bind(fused.Key(), relu, "Tensor"); err != nil {
			return nil, err
		}
	}

	if err := p.st.Regs().Bind(n.Key(), result, "Tensor"); err != nil {
		return nil, err
	}
	return result, nil
}

func encodeAdd(p *pass, n *ir.Node) (smt.Expr, error) {
	return encodeBinary(p, n, smt.Add)
}

func encodeSub(p *pass, n *ir.Node) (smt.Expr, error) {
	return encodeBinary(p, n, smt.Sub)
}

func encodeMul(p *pass, n *ir.Node) (smt.Expr, error) {
	return encodeBinary(p, n, smt.Mul)
}

// encodeDiv builds the unguarded division. The encoder itself does NOT
// register a divisor-nonzero obligation; the driver does that after the
// node is bound, keeping the obligation separable from the term.
func encodeDiv(p *pass, n *ir.Node) (smt.Expr, error) {
	return encodeBinary(p, n, smt.Div)
}
