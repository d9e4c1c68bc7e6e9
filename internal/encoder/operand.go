package encoder

import (
	"log/slog"

	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
)

// operand resolves one IR argument of an operator node to an
// expression, following the universal encoder protocol: node references
// are looked up in the register file and synthesized on demand when the
// argument was never visited (constant/parameter leaves); literals are
// wrapped as constants.
//
// Synthesized leaves are bound into the register file under the
// argument's identity, so every later consumer observes the same
// expression instance.
func (p *pass) operand(op *ir.Node, a ir.Arg) (smt.Expr, error) {
	switch v := a.(type) {
	case ir.NodeRef:
		return p.nodeOperand(op, v.Node)
	case ir.IntArg:
		return smt.IntConstant(int64(v)), nil
	case ir.FloatArg:
		return smt.Constant(float64(v)), nil
	case ir.BoolArg:
		return smt.BoolConst(bool(v)), nil
	default:
		return nil, errf(ErrMalformedNode, op.Op, op.Key(),
			"argument %s cannot be resolved to an expression", ir.FormatArg(a))
	}
}

func (p *pass) nodeOperand(op *ir.Node, ref *ir.Node) (smt.Expr, error) {
	if ref == nil {
		return nil, errf(ErrMalformedNode, op.Op, op.Key(), "nil node reference")
	}
	key := ref.Key()
	if p.st.Regs().Contains(key) {
		return p.st.Regs().Expr(key)
	}

	// Unvisited leaf: a constant/parameter is materialized under the
	// strict single-element rule; anything else is a free input.
	var expr smt.Expr
	if p.graph.IsParameter(ref) {
		attr, ok := p.graph.Attribute(ref)
		if !ok {
			attr = &ir.Attribute{Shape: ref.Meta.Shape}
		}
		if ir.NumElements(attr.Shape) != 1 {
			return nil, errf(ErrUnsupportedConstantShape, op.Op, op.Key(),
				"constant operand %q has shape %v; only one-element constants are modeled",
				key, attr.Shape)
		}
		if len(attr.Data) > 0 {
			expr = smt.Constant(attr.Data[0])
		} else {
			// Data-dependent scalar: substitute a named symbol. This is
			// logged, not failed (shape-dependent scalars may not be
			// resolvable at encode time).
			p.log.Debug("substituting named symbol for symbolic constant",
				slog.String("operand", key), slog.String("op", op.Op))
			expr = smt.Variable(key)
		}
	} else {
		expr = smt.Variable(key)
	}

	if err := p.st.Regs().Bind(key, expr, "Tensor"); err != nil {
		return nil, err
	}
	return expr, nil
}

// scalarConvert materializes a constant from a tensor-like attribute at
// placeholder-seeding time: the first element when concretizable, a
// fresh named real-valued symbol otherwise. The symbol substitution is
// logged, never failed.
func (p *pass) scalarConvert(name string, attr *ir.Attribute) smt.Expr {
	if attr != nil && len(attr.Data) > 0 {
		return smt.Constant(attr.Data[0])
	}
	p.log.Debug("attribute is not concretizable; using named symbol",
		slog.String("attribute", name))
	return smt.Variable(name)
}
