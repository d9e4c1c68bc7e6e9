package encoder

import (
	"fmt"
	"log/slog"

	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
)

// phase tracks the driver's linear state machine. Encoding never
// revisits a node and never cycles; any fatal encoder error moves
// directly to phaseFailed and no partial artifact is emitted.
type phase int

const (
	phaseInit phase = iota
	phaseSeedPlaceholders
	phaseEncodeOperators
	phaseResolveOutputs
	phaseSerialize
	phaseDone
	phaseFailed
)

func (ph phase) String() string {
	switch ph {
	case phaseInit:
		return "Init"
	case phaseSeedPlaceholders:
		return "SeedPlaceholders"
	case phaseEncodeOperators:
		return "EncodeOperators"
	case phaseResolveOutputs:
		return "ResolveOutputs"
	case phaseSerialize:
		return "Serialize"
	case phaseDone:
		return "Done"
	default:
		return "Failed"
	}
}

// Options configures an encoding pass.
type Options struct {
	// WholeFormula serializes the conjunction of all top-level node
	// equations plus the overall precondition, instead of just the
	// resolved output expression.
	WholeFormula bool
	// Logger receives warnings and debug output; nil uses the default.
	Logger *slog.Logger
}

// Encoder drives one or more encoding passes over graphs. The operator
// table is built once at construction and immutable afterwards.
type Encoder struct {
	table map[string]encodeFn
	opts  Options
	log   *slog.Logger
}

// New creates an Encoder. Fails only if the operator table is
// malformed (duplicate registration).
func New(opts Options) (*Encoder, error) {
	table, err := newEncoderTable()
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Encoder{table: table, opts: opts, log: log}, nil
}

// pass carries the per-graph encoding state. It is created at the start
// of Encode and discarded at the end; nothing is shared across passes.
type pass struct {
	graph    *ir.Graph
	st       *State
	log      *slog.Logger
	warnings []string
	phase    phase

	// topLevel accumulates (identity, expression) pairs for every
	// successfully encoded call node, in graph order.
	topKeys  []string
	topExprs []smt.Expr
}

func (p *pass) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.warnings = append(p.warnings, msg)
	p.log.Warn(msg)
}

func (p *pass) advance(next phase) {
	p.log.Debug("encoding phase transition",
		slog.String("from", p.phase.String()),
		slog.String("to", next.String()))
	p.phase = next
}

// Result is the outcome of a successful encoding pass: the serialized
// artifact plus the final symbolic state, exposed for inspection and
// well-definedness queries.
type Result struct {
	Artifact *Artifact
	State    *State
}

// Encode runs one full pass over the graph:
// Init -> SeedPlaceholders -> EncodeOperators -> ResolveOutputs ->
// Serialize -> Done. A fatal error from any operator encoder aborts the
// pass with no artifact; unregistered operators are warned and skipped,
// and the remaining expressions are still assembled.
func (e *Encoder) Encode(g *ir.Graph) (*Result, error) {
	p := &pass{graph: g, st: NewState(), log: e.log, phase: phaseInit}

	p.advance(phaseSeedPlaceholders)
	if err := e.seedPlaceholders(p); err != nil {
		p.advance(phaseFailed)
		return nil, err
	}

	p.advance(phaseEncodeOperators)
	if err := e.encodeOperators(p); err != nil {
		p.advance(phaseFailed)
		return nil, err
	}

	p.advance(phaseResolveOutputs)
	outputs, err := e.resolveOutputs(p)
	if err != nil {
		p.advance(phaseFailed)
		return nil, err
	}

	p.advance(phaseSerialize)
	artifact, err := e.serialize(p, outputs)
	if err != nil {
		p.advance(phaseFailed)
		return nil, err
	}

	p.advance(phaseDone)
	return &Result{Artifact: artifact, State: p.st}, nil
}

// seedPlaceholders binds every placeholder before any operator runs:
// parameters, buffers, and lifted attributes become constants under the
// scalar-conversion rule; everything else becomes a fresh named
// variable.
func (e *Encoder) seedPlaceholders(p *pass) error {
	for _, n := range p.graph.Nodes {
		if n.Kind != ir.KindPlaceholder {
			continue
		}
		key := n.Key()
		var expr smt.Expr
		if p.graph.IsParameter(n) {
			attr, _ := p.graph.Attribute(n)
			expr = p.scalarConvert(key, attr)
		} else {
			expr = smt.Variable(key)
		}
		if err := p.st.Regs().Bind(key, expr, "Tensor"); err != nil {
			return err
		}
		p.log.Debug("seeded placeholder",
			slog.String("target", key),
			slog.String("expr", expr.String()))
	}
	return nil
}

// encodeOperators dispatches every call node to its registered encoder
// in definition order. Operators without a registered encoder are a
// coverage gap: warned and skipped, never fatal, since eligibility
// filtering should already have excluded them.
func (e *Encoder) encodeOperators(p *pass) error {
	for _, n := range p.graph.Nodes {
		if n.Kind != ir.KindCall {
			continue
		}
		if p.st.Regs().Contains(n.Key()) {
			// Already defined by a producer's fusion; nothing to do.
			continue
		}
		fn, ok := e.table[n.Op]
		if !ok {
			p.warnf("operator %s is not supported by the symbolic encoder; skipping node %s", n.Op, n.Key())
			continue
		}
		expr, err := fn(p, n)
		if err != nil {
			return withNodeContext(err, n)
		}
		p.topKeys = append(p.topKeys, n.Key())
		p.topExprs = append(p.topExprs, expr)

		if n.Op == OpDiv {
			if err := e.recordDivObligation(p, n); err != nil {
				return withNodeContext(err, n)
			}
		}
	}
	return nil
}

// recordDivObligation registers the divisor-nonzero side-condition for
// a division node. The registration lives in the driver, not the div
// encoder, so the base algebra stays unguarded and the obligation stays
// separable from the term.
func (e *Encoder) recordDivObligation(p *pass, n *ir.Node) error {
	divisor, err := p.operand(n, n.Args[1])
	if err != nil {
		return err
	}
	nonzero, err := smt.Ne(divisor, smt.Constant(0))
	if err != nil {
		return err
	}
	return p.st.RecordWellDefinedness(n.Key(), "divisor is nonzero", nonzero)
}

// resolveOutputs maps the output node's arguments to their bound
// expressions. A single output binds directly; listed outputs pack into
// an ordered tuple expression.
func (e *Encoder) resolveOutputs(p *pass) ([]smt.Expr, error) {
	out, ok := p.graph.OutputNode()
	if !ok {
		return nil, nil
	}
	var exprs []smt.Expr
	for _, a := range out.Args {
		switch v := a.(type) {
		case ir.NodeRef:
			expr, err := p.st.Regs().Expr(v.Node.Key())
			if err != nil {
				return nil, withNodeContext(err, out)
			}
			exprs = append(exprs, expr)
		case ir.ListArg:
			elems := make([]smt.Expr, 0, len(v))
			for _, la := range v {
				ref, ok := la.(ir.NodeRef)
				if !ok {
					return nil, errf(ErrMalformedNode, "output", out.Key(),
						"output list element %s is not a node reference", ir.FormatArg(la))
				}
				expr, err := p.st.Regs().Expr(ref.Node.Key())
				if err != nil {
					return nil, withNodeContext(err, out)
				}
				elems = append(elems, expr)
			}
			exprs = append(exprs, smt.Tuple(elems...))
		default:
			return nil, errf(ErrMalformedNode, "output", out.Key(),
				"output argument %s is not a node reference", ir.FormatArg(a))
		}
	}
	return exprs, nil
}

func withNodeContext(err error, n *ir.Node) error {
	if ee, ok := err.(*EncodeError); ok {
		if ee.Node == "" {
			ee.Node = n.Key()
		}
		if ee.Op == "" {
			ee.Op = n.Op
		}
		return ee
	}
	return fmt.Errorf("node %s (%s): %w", n.Key(), n.Op, err)
}
