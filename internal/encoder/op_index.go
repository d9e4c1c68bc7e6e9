package encoder

import (
	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
)

// Gather/scatter operators: embedding lookup and index_put.

// encodeEmbedding models an embedding gather as an array-select of the
// weight at the indices. Multi-dimensional index tensors are not
// modeled; the result is a single scalar-like select. When the weight
// expression does not carry Array sort (the common case after scalar
// approximation), the lookup degrades to an uninterpreted gather.
func encodeEmbedding(p *pass, n *ir.Node) (smt.Expr, error) {
	weight, indices, err := twoOperands(p, n)
	if err != nil {
		return nil, err
	}

	var expr smt.Expr
	if weight.Sort() == smt.SortArray {
		expr, err = smt.ArraySelect(weight, indices)
		if err != nil {
			return nil, err
		}
	} else {
		expr = smt.Gather(weight, indices)
	}

	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

// encodeIndexPut models index_put as an uninterpreted scatter over the
// base tensor, a merged index expression, and the value expression.
//
// Multiple index tensors are folded pairwise by repeated addition. This
// is a deliberately crude placeholder, not a faithful encoding; a
// single index tensor is used directly without folding.
func encodeIndexPut(p *pass, n *ir.Node) (smt.Expr, error) {
	if len(n.Args) < 3 {
		return nil, errf(ErrMalformedNode, n.Op, n.Key(), "expected 3 arguments, got %d", len(n.Args))
	}
	base, err := p.operand(n, n.Args[0])
	if err != nil {
		return nil, err
	}

	var indexExprs []smt.Expr
	switch v := n.Args[1].(type) {
	case ir.ListArg:
		for _, a := range v {
			if _, isNone := a.(ir.NoneArg); isNone {
				continue
			}
			e, err := p.operand(n, a)
			if err != nil {
				return nil, err
			}
			indexExprs = append(indexExprs, e)
		}
	default:
		e, err := p.operand(n, v)
		if err != nil {
			return nil, err
		}
		indexExprs = append(indexExprs, e)
	}
	if len(indexExprs) == 0 {
		return nil, errf(ErrMalformedNode, n.Op, n.Key(), "index_put requires at least one index tensor")
	}

	merged := indexExprs[0]
	for _, next := range indexExprs[1:] {
		step, err := smt.Add(smt.Zero(), merged)
		if err != nil {
			return nil, err
		}
		merged, err = smt.Add(step, next)
		if err != nil {
			return nil, err
		}
	}

	value, err := p.operand(n, n.Args[2])
	if err != nil {
		return nil, err
	}

	expr := smt.ScatterND(base, merged, value)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}
