package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
	"github.com/roach88/symgraph/internal/solver"
)

// graphBuilder assembles small test graphs in definition order.
type graphBuilder struct {
	t *testing.T
	g *ir.Graph
}

func newGraph(t *testing.T, name string) *graphBuilder {
	t.Helper()
	return &graphBuilder{t: t, g: &ir.Graph{
		Name:            name,
		Parameters:      map[string]bool{},
		Buffers:         map[string]bool{},
		TensorConstants: map[string]bool{},
		Attributes:      map[string]*ir.Attribute{},
	}}
}

func (b *graphBuilder) placeholder(target string) *ir.Node {
	n := &ir.Node{Name: target, Target: target, Kind: ir.KindPlaceholder}
	b.g.Nodes = append(b.g.Nodes, n)
	return n
}

func (b *graphBuilder) param(target string, shape []int, data []float64) *ir.Node {
	n := b.placeholder(target)
	b.g.Parameters[target] = true
	b.g.Attributes[target] = &ir.Attribute{Shape: shape, Data: data}
	return n
}

func (b *graphBuilder) call(name, op string, args ...ir.Arg) *ir.Node {
	n := &ir.Node{Name: name, Kind: ir.KindCall, Op: op, Args: args}
	b.g.Nodes = append(b.g.Nodes, n)
	return n
}

func (b *graphBuilder) output(args ...ir.Arg) *ir.Node {
	n := &ir.Node{Name: "output", Kind: ir.KindOutput, Args: args}
	b.g.Nodes = append(b.g.Nodes, n)
	return n
}

func (b *graphBuilder) build() *ir.Graph {
	b.t.Helper()
	require.NoError(b.t, b.g.Finalize())
	return b.g
}

func ref(n *ir.Node) ir.Arg { return ir.NodeRef{Node: n} }

func encode(t *testing.T, g *ir.Graph) *Result {
	t.Helper()
	enc, err := New(Options{})
	require.NoError(t, err)
	result, err := enc.Encode(g)
	require.NoError(t, err)
	return result
}

func TestEncode_TwoInputAddChain(t *testing.T) {
	b := newGraph(t, "add_chain")
	x := b.placeholder("x")
	y := b.placeholder("y")
	a1 := b.call("add1", OpAdd, ref(x), ref(y))
	a2 := b.call("add2", OpAdd, ref(a1), ref(x))
	a3 := b.call("add3", OpAdd, ref(a2), ref(x))
	a4 := b.call("add4", OpAdd, ref(a3), ref(a3))
	b.output(ref(a4))
	g := b.build()

	result := encode(t, g)

	// Two placeholders plus exactly four add bindings.
	regs := result.State.Regs()
	assert.Equal(t, 6, regs.Len())
	for _, name := range []string{"add1", "add2", "add3", "add4"} {
		assert.True(t, regs.Contains(name))
	}

	// The output is semantically 2*(3x+y).
	out, err := regs.Expr("add4")
	require.NoError(t, err)

	three, err := smt.Mul(smt.Constant(3), smt.Variable("x"))
	require.NoError(t, err)
	inner, err := smt.Add(three, smt.Variable("y"))
	require.NoError(t, err)
	want, err := smt.Mul(smt.Constant(2), inner)
	require.NoError(t, err)

	eq, err := solver.Equivalent(out, want)
	require.NoError(t, err)
	assert.True(t, eq)

	require.Len(t, result.Artifact.FinalExprs, 1)
	assert.Equal(t, out.String(), result.Artifact.FinalExprs[0])
}

func TestEncode_SelfMultiply(t *testing.T) {
	b := newGraph(t, "square")
	x := b.placeholder("x")
	m := b.call("mul", OpMul, ref(x), ref(x))
	b.output(ref(m))
	g := b.build()

	result := encode(t, g)
	regs := result.State.Regs()
	assert.Equal(t, 2, regs.Len(), "one input, one mul binding")

	out, err := regs.Expr("mul")
	require.NoError(t, err)

	square, err := smt.Mul(smt.Variable("x"), smt.Variable("x"))
	require.NoError(t, err)
	eq, err := solver.Equivalent(out, square)
	require.NoError(t, err)
	assert.True(t, eq)

	double, err := smt.Add(smt.Variable("x"), smt.Variable("x"))
	require.NoError(t, err)
	eq, err = solver.Equivalent(out, double)
	require.NoError(t, err)
	assert.False(t, eq, "x*x must not collapse to x+x")
}

func TestEncode_CatThenSelfAdd(t *testing.T) {
	b := newGraph(t, "cat_add")
	a := b.placeholder("a")
	c := b.placeholder("b")
	cat := b.call("cat", OpCat, ir.ListArg{ref(a), ref(c)}, ir.IntArg(0))
	sum := b.call("add", OpAdd, ref(cat), ref(cat))
	b.output(ref(sum))
	g := b.build()

	result := encode(t, g)
	regs := result.State.Regs()

	catExpr, err := regs.Expr("cat")
	require.NoError(t, err)
	assert.Contains(t, catExpr.String(), "concat_axis0_n2")

	// Both add operands are the identical cat expression, not merely
	// equivalent ones.
	addExpr, err := regs.Expr("add")
	require.NoError(t, err)
	bin, ok := addExpr.(smt.Binary)
	require.True(t, ok)
	assert.Equal(t, bin.Left, bin.Right)
	assert.Equal(t, catExpr, bin.Left)
}

func TestEncode_CatArity(t *testing.T) {
	for _, n := range []int{1, 5} {
		b := newGraph(t, "cat_arity")
		var list ir.ListArg
		for i := 0; i < n; i++ {
			list = append(list, ref(b.placeholder(string(rune('a'+i)))))
		}
		cat := b.call("cat", OpCat, list, ir.IntArg(0))
		b.output(ref(cat))
		g := b.build()

		enc, err := New(Options{})
		require.NoError(t, err)
		_, err = enc.Encode(g)
		require.Error(t, err, "cat with %d inputs", n)
		assert.True(t, IsUnsupported(err))
	}
}

func TestEncode_FusedRelu(t *testing.T) {
	b := newGraph(t, "fused")
	x := b.placeholder("x")
	y := b.placeholder("y")
	a := b.call("add", OpAdd, ref(x), ref(y))
	r := b.call("relu", OpRelu, ref(a))
	b.output(ref(r))
	g := b.build()

	result := encode(t, g)
	regs := result.State.Regs()

	// The producer keeps the raw combination; the consumer holds the
	// max-rewrite. Both are independently retrievable.
	raw, err := regs.Expr("add")
	require.NoError(t, err)
	assert.Equal(t, "(+ x y)", raw.String())

	fused, err := regs.Expr("relu")
	require.NoError(t, err)
	assert.Equal(t, "(max 0 (+ x y))", fused.String())

	assert.Empty(t, result.Artifact.Warnings, "fused consumer is not a coverage gap")
}

func TestEncode_NoFusionWithTwoConsumers(t *testing.T) {
	b := newGraph(t, "unfused")
	x := b.placeholder("x")
	y := b.placeholder("y")
	a := b.call("add", OpAdd, ref(x), ref(y))
	r := b.call("relu", OpRelu, ref(a))
	m := b.call("mul", OpMul, ref(a), ref(x))
	b.output(ref(r), ref(m))
	g := b.build()

	enc, err := New(Options{})
	require.NoError(t, err)
	_, err = enc.Encode(g)

	// With two consumers there is no fusion, so the standalone relu has
	// no registered encoder and the output cannot resolve.
	require.Error(t, err)
	assert.True(t, IsUnboundIdentifier(err))
}

func TestEncode_DivisionObligationIsSeparable(t *testing.T) {
	b := newGraph(t, "division")
	x := b.placeholder("x")
	y := b.placeholder("y")
	d := b.call("div", OpDiv, ref(x), ref(y))
	b.output(ref(d))
	g := b.build()

	// Encoding never fails just because the divisor could be zero.
	result := encode(t, g)

	out, err := result.State.Regs().Expr("div")
	require.NoError(t, err)
	assert.Equal(t, "(/ x y)", out.String())

	// The driver registered the obligation under the division node.
	require.True(t, result.State.HasWellDefinedness("div"))
	cond, err := result.State.WellDefinednessFor("div")
	require.NoError(t, err)

	want, err := smt.Ne(smt.Variable("y"), smt.Constant(0))
	require.NoError(t, err)
	eq, err := solver.Equivalent(cond, want)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEncode_SliceStrideIsFatal(t *testing.T) {
	b := newGraph(t, "strided")
	x := b.placeholder("x")
	x.Meta.Shape = []int{4, 8}
	s := b.call("slice", OpSlice, ref(x), ir.IntArg(1), ir.IntArg(0), ir.IntArg(4), ir.IntArg(2))
	b.output(ref(s))
	g := b.build()

	enc, err := New(Options{})
	require.NoError(t, err)
	result, err := enc.Encode(g)

	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.Nil(t, result, "no partial artifact on fatal failure")

	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrUnsupportedStride, ee.Code)
	assert.Equal(t, "slice", ee.Node)
}

func TestEncode_UnregisteredOperatorWarnsAndContinues(t *testing.T) {
	b := newGraph(t, "gap")
	x := b.placeholder("x")
	y := b.placeholder("y")
	b.call("mystery", "aten.mystery.default", ref(x))
	a := b.call("add", OpAdd, ref(x), ref(y))
	b.output(ref(a))
	g := b.build()

	result := encode(t, g)

	require.Len(t, result.Artifact.Warnings, 1)
	assert.Contains(t, result.Artifact.Warnings[0], "aten.mystery.default")
	assert.Len(t, result.Artifact.FinalExprs, 1)
}

func TestEncode_ParameterSeeding(t *testing.T) {
	b := newGraph(t, "params")
	x := b.placeholder("x")
	w := b.param("w", []int{1}, []float64{2})
	sym := b.param("s", []int{1}, nil)
	m := b.call("mul", OpMul, ref(x), ref(w))
	a := b.call("add", OpAdd, ref(m), ref(sym))
	b.output(ref(a))
	g := b.build()

	result := encode(t, g)
	regs := result.State.Regs()

	// Concrete one-element parameters seed as constants; symbolic ones
	// fall back to a named symbol.
	wExpr, err := regs.Expr("w")
	require.NoError(t, err)
	assert.Equal(t, "2", wExpr.String())

	sExpr, err := regs.Expr("s")
	require.NoError(t, err)
	assert.Equal(t, "s", sExpr.String())
}

func TestEncode_MultipleOutputsPackAsTuple(t *testing.T) {
	b := newGraph(t, "multi")
	x := b.placeholder("x")
	y := b.placeholder("y")
	a := b.call("add", OpAdd, ref(x), ref(y))
	m := b.call("mul", OpMul, ref(x), ref(y))
	b.output(ir.ListArg{ref(a), ref(m)})
	g := b.build()

	result := encode(t, g)
	require.Len(t, result.Artifact.FinalExprs, 1)
	assert.Equal(t, "(tuple (+ x y) (* x y))", result.Artifact.FinalExprs[0])
}

func TestEncode_WholeFormulaMode(t *testing.T) {
	b := newGraph(t, "whole")
	x := b.placeholder("x")
	y := b.placeholder("y")
	d := b.call("div", OpDiv, ref(x), ref(y))
	b.output(ref(d))
	g := b.build()

	enc, err := New(Options{WholeFormula: true})
	require.NoError(t, err)
	result, err := enc.Encode(g)
	require.NoError(t, err)

	require.Len(t, result.Artifact.FinalExprs, 1)
	formula := result.Artifact.FinalExprs[0]
	assert.Contains(t, formula, "(= div (/ x y))")
	assert.Contains(t, formula, "and")
}

func TestEncoderTable_NoDuplicates(t *testing.T) {
	table, err := newEncoderTable()
	require.NoError(t, err)
	assert.NotEmpty(t, table)

	ops := SupportedOperators()
	assert.Len(t, ops, len(table))
	assert.Contains(t, ops, OpAdd)
	assert.NotContains(t, ops, OpRelu, "relu is handled only by fusion")
}
