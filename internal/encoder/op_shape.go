package encoder

import (
	"log/slog"

	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
)

// Shape-manipulating operators: reshape/view, permute, slice, select,
// concat, expand, unsqueeze. All are modeled as uninterpreted symbols
// whose names embed the shape/axis parameters.

// Fixed 4-element permutation tables between the default (NCHW) and
// channels-last (NHWC) axis orders.
var (
	permNCHWToNHWC = []int{0, 2, 3, 1}
	permNHWCToNCHW = []int{0, 3, 1, 2}
)

// emptyShapeFallback is the documented default used when a reshape
// target shape cannot be determined from node metadata. The symbol then
// names an empty target shape; this is an intentional approximation,
// not an implicit coercion.
var emptyShapeFallback = []int{}

func encodeReshape(p *pass, n *ir.Node) (smt.Expr, error) {
	in, inNode, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	oldShape, ok := inNode.Meta.ShapeOK()
	if !ok {
		oldShape = emptyShapeFallback
	}
	newShape, ok := n.Meta.ShapeOK()
	if !ok {
		p.log.Debug("reshape target shape unknown; using empty-shape default",
			slog.String("node", n.Key()))
		newShape = emptyShapeFallback
	}
	expr := smt.Reshape(in, oldShape, newShape)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

func encodePermute(p *pass, n *ir.Node) (smt.Expr, error) {
	in, _, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	perm, ok := intsArg(n, 1)
	if !ok {
		return nil, errf(ErrMalformedNode, n.Op, n.Key(), "missing permutation order")
	}

	if n.Meta.ChannelsLast {
		if len(perm) != 4 {
			return nil, errf(ErrUnsupportedRank, n.Op, n.Key(),
				"channels-last permute requires exactly 4 dimensions, got %d", len(perm))
		}
		// Map the stored NHWC-relative order into NCHW terms, then
		// reorder back into channels-last positions.
		contiguous := make([]int, 4)
		for i, d := range perm {
			contiguous[i] = permNHWCToNCHW[d]
		}
		remapped := make([]int, 4)
		for i, d := range permNCHWToNHWC {
			remapped[i] = contiguous[d]
		}
		perm = remapped
	}

	expr := smt.TransposeND(in, perm)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

func encodeSlice(p *pass, n *ir.Node) (smt.Expr, error) {
	in, inNode, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	dim := intArgOr(n, 1, 0)
	start := intArgOr(n, 2, 0)
	end, hasEnd := intArgAt(n, 3)
	if stride, ok := intArgAt(n, 4); ok && stride != 1 {
		return nil, errf(ErrUnsupportedStride, n.Op, n.Key(),
			"only stride=1 slices are modeled, got stride=%d", stride)
	}

	shape, hasShape := inNode.Meta.ShapeOK()
	if hasShape {
		if dim < 0 {
			dim = pymod(dim, len(shape))
		}
		if start < 0 && dim < len(shape) {
			start = shape[dim] + start
		}
	}

	// Size comes from the node's own output shape when available, else
	// from the begin/end literals, else the slice is indeterminate.
	var size int
	if out, ok := n.Meta.ShapeOK(); ok && dim >= 0 && dim < len(out) {
		size = out[dim]
	} else if hasEnd {
		size = end - start
	} else {
		return nil, errf(ErrIndeterminateSize, n.Op, n.Key(),
			"cannot deduce slice size without output shape or end index")
	}

	if !hasShape {
		shape = emptyShapeFallback
	}
	expr := smt.Slice(in, shape, dim, start, size)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

func encodeSelect(p *pass, n *ir.Node) (smt.Expr, error) {
	in, inNode, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	dim := intArgOr(n, 1, 0)
	index := intArgOr(n, 2, 0)

	shape, hasShape := inNode.Meta.ShapeOK()
	if hasShape {
		if dim < 0 {
			dim = pymod(dim, len(shape))
		}
		if dim < len(shape) {
			index = pymod(index, shape[dim])
		}
	} else {
		shape = emptyShapeFallback
	}

	expr := smt.SelectDim(in, shape, dim, index)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

func encodeCat(p *pass, n *ir.Node) (smt.Expr, error) {
	if len(n.Args) == 0 {
		return nil, errf(ErrMalformedNode, n.Op, n.Key(), "missing input list")
	}
	list, ok := n.Args[0].(ir.ListArg)
	if !ok {
		return nil, errf(ErrMalformedNode, n.Op, n.Key(), "first argument must be a tensor list")
	}
	if len(list) < 2 || len(list) > 4 {
		return nil, errf(ErrUnsupportedArity, n.Op, n.Key(),
			"concat supports 2..4 inputs, got %d", len(list))
	}

	inputs := make([]smt.Expr, 0, len(list))
	for _, a := range list {
		e, err := p.operand(n, a)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, e)
	}

	axis := intArgOr(n, 1, 0)
	if n.Meta.ChannelsLast && axis >= 0 && axis < 4 {
		axis = permNHWCToNCHW[axis]
	}

	expr := smt.Concat(axis, inputs)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

func encodeExpand(p *pass, n *ir.Node) (smt.Expr, error) {
	in, inNode, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	oldShape, ok := inNode.Meta.ShapeOK()
	if !ok {
		oldShape = emptyShapeFallback
	}
	newSizes, ok := intsArg(n, 1)
	if !ok {
		newSizes = nil
	}

	// A lower input rank is a valid broadcast, not an error.
	if len(oldShape) < len(newSizes) {
		p.warnf("expand: input rank %d is less than output rank %d for node %s",
			len(oldShape), len(newSizes), n.Key())
	}

	expr := smt.ExpandShape(in, oldShape, newSizes)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

func encodeUnsqueeze(p *pass, n *ir.Node) (smt.Expr, error) {
	in, _, err := firstNodeOperand(p, n)
	if err != nil {
		return nil, err
	}
	// dim defaults to 0 when the argument list omits it.
	dim := intArgOr(n, 1, 0)
	expr := smt.Unsqueeze(in, dim)
	if err := p.st.Regs().Bind(n.Key(), expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

// firstNodeOperand resolves args[0] as the primary tensor input and
// returns both its expression and the referenced node (for metadata).
func firstNodeOperand(p *pass, n *ir.Node) (smt.Expr, *ir.Node, error) {
	if len(n.Args) == 0 {
		return nil, nil, errf(ErrMalformedNode, n.Op, n.Key(), "missing input operand")
	}
	ref, ok := n.Args[0].(ir.NodeRef)
	if !ok || ref.Node == nil {
		return nil, nil, errf(ErrMalformedNode, n.Op, n.Key(), "first argument must be a node reference")
	}
	e, err := p.operand(n, ref)
	if err != nil {
		return nil, nil, err
	}
	return e, ref.Node, nil
}

// pymod is the non-negative modulo used for axis normalization.
func pymod(a, m int) int {
	if m <= 0 {
		return a
	}
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func intArgAt(n *ir.Node, i int) (int, bool) {
	if i >= len(n.Args) {
		return 0, false
	}
	v, ok := n.Args[i].(ir.IntArg)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func intArgOr(n *ir.Node, i, def int) int {
	if v, ok := intArgAt(n, i); ok {
		return v
	}
	return def
}

func intsArg(n *ir.Node, i int) ([]int, bool) {
	if i >= len(n.Args) {
		return nil, false
	}
	v, ok := n.Args[i].(ir.IntsArg)
	if !ok {
		return nil, false
	}
	return []int(v), true
}
