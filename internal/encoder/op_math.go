package encoder

import (
	"math"

	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
)

// Math-flavored operators: softmax, mean.dim, rsqrt, attention.

// encodeSoftmax supports only the last dimension. The rank check runs
// when the input shape is known; with an unknown shape, the stored dim
// is passed through unchecked.
func encodeSoftmax(p *pass, n *ir.Node) (smt.Expr, error) {
	in, inNode, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	dim := intArgOr(n, 1, -1)
	if shape, ok := inNode.Meta.ShapeOK(); ok {
		rank := len(shape)
		if dim != -1 && dim != rank-1 {
			return nil, errf(ErrUnsupportedAxis, n.Op, n.Key(),
				"softmax is modeled only along the last dimension, got dim=%d rank=%d", dim, rank)
		}
	}
	expr := smt.Softmax(in, dim)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

// encodeMeanDim supports exactly the global-average-pool special case:
// a 4-D input reduced over its two innermost dimensions (in either
// order) with keepdim semantics.
func encodeMeanDim(p *pass, n *ir.Node) (smt.Expr, error) {
	in, inNode, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}

	dims, ok := intsArg(n, 1)
	if !ok || !isInnermostPair(dims) {
		return nil, errf(ErrUnsupportedReduction, n.Op, n.Key(),
			"mean is modeled only over the two innermost dims, got %v", dims)
	}
	if len(n.Args) < 3 || !boolArgOr(n, 2, false) {
		return nil, errf(ErrUnsupportedReduction, n.Op, n.Key(),
			"mean is modeled only with keepdim=true")
	}
	shape, ok := inNode.Meta.ShapeOK()
	if !ok || len(shape) != 4 {
		return nil, errf(ErrUnsupportedReduction, n.Op, n.Key(),
			"mean input must be 4-D, got shape %v", shape)
	}

	expr := smt.GlobalAvgPool2D(in, shape)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

func isInnermostPair(dims []int) bool {
	if len(dims) != 2 {
		return false
	}
	return (dims[0] == -1 && dims[1] == -2) || (dims[0] == -2 && dims[1] == -1)
}

func boolArgOr(n *ir.Node, i int, def bool) bool {
	if i >= len(n.Args) {
		return def
	}
	if v, ok := n.Args[i].(ir.BoolArg); ok {
		return bool(v)
	}
	return def
}

// encodeRsqrt builds 1/sqrt(x) from primitive real-valued operators
// rather than an uninterpreted symbol. No x >= 0 domain restriction is
// asserted.
func encodeRsqrt(p *pass, n *ir.Node) (smt.Expr, error) {
	in, _, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	root, err := smt.Sqrt(in)
	if err != nil {
		return nil, err
	}
	expr, err := smt.Div(smt.Constant(1), root)
	if err != nil {
		return nil, err
	}
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

// encodeSDPA models scaled-dot-product-attention as one uninterpreted
// application over query, key, value, mask, and scale. The scale
// defaults to 1/sqrt(last query dim) when not supplied.
func encodeSDPA(p *pass, n *ir.Node) (smt.Expr, error) {
	if len(n.Args) < 3 {
		return nil, errf(ErrMalformedNode, n.Op, n.Key(), "expected q, k, v arguments, got %d", len(n.Args))
	}
	q, err := p.operand(n, n.Args[0])
	if err != nil {
		return nil, err
	}
	k, err := p.operand(n, n.Args[1])
	if err != nil {
		return nil, err
	}
	v, err := p.operand(n, n.Args[2])
	if err != nil {
		return nil, err
	}

	mask := smt.Zero()
	if len(n.Args) > 3 {
		if _, isNone := n.Args[3].(ir.NoneArg); !isNone {
			mask, err = p.operand(n, n.Args[3])
			if err != nil {
				return nil, err
			}
		}
	}

	scaleVal := 1.0
	if a, ok := n.Kwarg("scale"); ok {
		if f, ok := a.(ir.FloatArg); ok {
			scaleVal = float64(f)
		}
	} else if qRef, ok := n.Args[0].(ir.NodeRef); ok && qRef.Node != nil {
		if shape, ok := qRef.Node.Meta.ShapeOK(); ok && len(shape) > 0 {
			scaleVal = 1.0 / math.Sqrt(float64(shape[len(shape)-1]))
		}
	}

	expr := smt.SDPA(q, k, v, mask, smt.Constant(scaleVal))
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}
