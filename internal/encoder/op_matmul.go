package encoder

import (
	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
)

// Matrix multiplication variants. No shape validation happens at this
// layer: the IR's own type checking is assumed to have already passed,
// so mm/bmm just apply their (distinct) uninterpreted symbols.

func encodeMM(p *pass, n *ir.Node) (smt.Expr, error) {
	a, b, err := twoOperands(p, n)
	if err != nil {
		return nil, err
	}
	expr := smt.MM(a, b)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

func encodeBMM(p *pass, n *ir.Node) (smt.Expr, error) {
	a, b, err := twoOperands(p, n)
	if err != nil {
		return nil, err
	}
	expr := smt.BMM(a, b)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

// encodeLinear models y = x @ W^T + bias. The transpose applies only
// when the weight expression variant supports it (named symbols and
// uninterpreted applications); otherwise the weight is used as-is,
// a best-effort degradation for scalar-approximated weights.
func encodeLinear(p *pass, n *ir.Node) (smt.Expr, error) {
	if len(n.Args) < 2 {
		return nil, errf(ErrMalformedNode, n.Op, n.Key(), "expected at least 2 arguments, got %d", len(n.Args))
	}
	x, err := p.operand(n, n.Args[0])
	if err != nil {
		return nil, err
	}
	w, err := p.operand(n, n.Args[1])
	if err != nil {
		return nil, err
	}

	bias := smt.Zero()
	if len(n.Args) > 2 {
		if _, isNone := n.Args[2].(ir.NoneArg); !isNone {
			bias, err = p.operand(n, n.Args[2])
			if err != nil {
				return nil, err
			}
		}
	}

	wT := w
	if smt.CanTranspose(w) {
		wT = smt.Transpose2D(w)
	}

	prod, err := smt.Mul(x, wT)
	if err != nil {
		return nil, err
	}
	expr, err := smt.Add(prod, bias)
	if err != nil {
		return nil, err
	}
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

func twoOperands(p *pass, n *ir.Node) (smt.Expr, smt.Expr, error) {
	if len(n.Args) < 2 {
		return nil, nil, errf(ErrMalformedNode, n.Op, n.Key(), "expected 2 arguments, got %d", len(n.Args))
	}
	a, err := p.operand(n, n.Args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := p.operand(n, n.Args[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
