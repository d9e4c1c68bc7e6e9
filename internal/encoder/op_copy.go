package encoder

import (
	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
)

// Copy/layout operators: memory-format copy, dim-order copy, and the
// multi-result selection pass-through.

// encodeToCopy is an identity pass-through, except that converting to
// channels-last on a known 4-D shape applies the fixed NCHW->NHWC
// symbolic transpose. Formats outside {contiguous, channels_last} are
// not modeled.
func encodeToCopy(p *pass, n *ir.Node) (smt.Expr, error) {
	in, inNode, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}

	format := ir.FormatContiguous
	if a, ok := n.Kwarg("memory_format"); ok {
		s, ok := a.(ir.StrArg)
		if !ok {
			return nil, errf(ErrMalformedNode, n.Op, n.Key(), "memory_format must be a string")
		}
		format = string(s)
	}

	var expr smt.Expr
	switch format {
	case ir.FormatChannelsLast:
		if shape, ok := inNode.Meta.ShapeOK(); ok && len(shape) == 4 {
			expr = smt.TransposeND(in, permNCHWToNHWC)
		} else {
			expr = in
		}
	case ir.FormatContiguous:
		expr = in
	default:
		return nil, errf(ErrUnsupportedMemoryFormat, n.Op, n.Key(),
			"memory format %q is not modeled", format)
	}

	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

// encodeDimOrderCopy is a pure uninterpreted pass-through.
func encodeDimOrderCopy(p *pass, n *ir.Node) (smt.Expr, error) {
	in, _, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	expr := smt.DimOrderCopy(in)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

// encodeGetItem re-binds the operand's expression under the new
// identity. No new expression is constructed: multi-result selection is
// pure plumbing.
func encodeGetItem(p *pass, n *ir.Node) (smt.Expr, error) {
	in, _, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	if err := p.st.Regs().Bind(n.Key(), in, "Tensor"); err != nil {
		return nil, err
	}
	return in, nil
}
