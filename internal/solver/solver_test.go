package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/symgraph/internal/smt"
)

func add(t *testing.T, a, b smt.Expr) smt.Expr {
	t.Helper()
	e, err := smt.Add(a, b)
	require.NoError(t, err)
	return e
}

func mul(t *testing.T, a, b smt.Expr) smt.Expr {
	t.Helper()
	e, err := smt.Mul(a, b)
	require.NoError(t, err)
	return e
}

func TestEquivalent_CommutativeAdd(t *testing.T) {
	x, y := smt.Variable("x"), smt.Variable("y")

	eq, err := Equivalent(add(t, x, y), add(t, y, x))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEquivalent_AddVersusSub(t *testing.T) {
	x, y := smt.Variable("x"), smt.Variable("y")

	diff, err := smt.Sub(x, y)
	require.NoError(t, err)

	eq, err := Equivalent(add(t, x, y), diff)
	require.NoError(t, err)
	assert.False(t, eq, "x+y and x-y differ for free y")
}

func TestEquivalent_SquareIsNotDouble(t *testing.T) {
	x := smt.Variable("x")

	eq, err := Equivalent(mul(t, x, x), add(t, x, x))
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEquivalent_ProductCommutes(t *testing.T) {
	x, y := smt.Variable("x"), smt.Variable("y")

	eq, err := Equivalent(mul(t, x, y), mul(t, y, x))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEquivalent_ExpandedAddChain(t *testing.T) {
	x, y := smt.Variable("x"), smt.Variable("y")

	// ((((x+y)+x)+x) + ((((x+y)+x)+x)) built step by step.
	z := add(t, x, y)
	z = add(t, z, x)
	z = add(t, z, x)
	chain := add(t, z, z)

	// 2*(3x+y)
	scaled := mul(t, smt.Constant(2), add(t, mul(t, smt.Constant(3), x), y))

	eq, err := Equivalent(chain, scaled)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEquivalent_UninterpretedArgsNormalize(t *testing.T) {
	x, y := smt.Variable("x"), smt.Variable("y")

	// The same symbol applied to semantically equal arguments unifies.
	a := smt.UninterpretedCall("softmax_d1", add(t, x, y))
	b := smt.UninterpretedCall("softmax_d1", add(t, y, x))
	eq, err := Equivalent(a, b)
	require.NoError(t, err)
	assert.True(t, eq)

	// Distinct symbols never unify.
	c := smt.UninterpretedCall("softmax_d0", add(t, x, y))
	eq, err = Equivalent(a, c)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEquivalent_DivByConstantScales(t *testing.T) {
	x := smt.Variable("x")

	half, err := smt.Div(x, smt.Constant(2))
	require.NoError(t, err)

	scaled := mul(t, smt.Constant(0.5), x)
	eq, err := Equivalent(half, scaled)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestCheck_DistinctOnIdentity(t *testing.T) {
	x, y := smt.Variable("x"), smt.Variable("y")
	ctx := NewContext()

	ne, err := smt.Ne(add(t, x, y), add(t, y, x))
	require.NoError(t, err)
	res, err := ctx.Check(ne)
	require.NoError(t, err)
	assert.Equal(t, Unsat, res)

	ne, err = smt.Ne(x, y)
	require.NoError(t, err)
	res, err = ctx.Check(ne)
	require.NoError(t, err)
	assert.Equal(t, Sat, res)
}

func TestCheck_BooleanCanonicalization(t *testing.T) {
	p, err := smt.Lt(smt.Variable("x"), smt.Variable("y"))
	require.NoError(t, err)
	q, err := smt.Le(smt.Variable("y"), smt.Variable("z"))
	require.NoError(t, err)

	pq, err := smt.Conjunction(p, q)
	require.NoError(t, err)
	qp, err := smt.Conjunction(q, p)
	require.NoError(t, err)

	eq, err := Equivalent(pq, qp)
	require.NoError(t, err)
	assert.True(t, eq, "conjunction order is irrelevant")
}

func TestCheck_NonBooleanGoalIsAnError(t *testing.T) {
	ctx := NewContext()
	_, err := ctx.Check(smt.Variable("x"))
	assert.Error(t, err)
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "sat", Sat.String())
	assert.Equal(t, "unsat", Unsat.String())
	assert.Equal(t, "unknown", Unknown.String())
}
