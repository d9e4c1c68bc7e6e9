package smt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstant_RendersExactValue(t *testing.T) {
	assert.Equal(t, "3", Constant(3).String())
	assert.Equal(t, "0", Zero().String())
	assert.Equal(t, "7", IntConstant(7).String())

	// Non-integral values render as exact rational division.
	assert.Equal(t, "(/ 1 2)", Constant(0.5).String())
}

func TestVariable_DefaultsToRealSort(t *testing.T) {
	v := Variable("x")
	assert.Equal(t, SortReal, v.Sort())
	assert.Equal(t, "x", v.String())

	arr := TypedVariable("w", SortArray)
	assert.Equal(t, SortArray, arr.Sort())
}

func TestArithmetic_Rendering(t *testing.T) {
	x, y := Variable("x"), Variable("y")

	sum, err := Add(x, y)
	require.NoError(t, err)
	assert.Equal(t, "(+ x y)", sum.String())

	quot, err := Div(x, y)
	require.NoError(t, err)
	assert.Equal(t, "(/ x y)", quot.String())

	m, err := Max(Zero(), sum)
	require.NoError(t, err)
	assert.Equal(t, "(max 0 (+ x y))", m.String())
}

func TestArithmetic_RejectsBooleanOperand(t *testing.T) {
	_, err := Add(Variable("x"), BoolConst(true))
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
}

func TestConjunction_RequiresBooleanSorts(t *testing.T) {
	a, err := Lt(Variable("x"), Variable("y"))
	require.NoError(t, err)

	both, err := Conjunction(a, BoolConst(true))
	require.NoError(t, err)
	assert.Equal(t, SortBoolean, both.Sort())

	_, err = Conjunction(a, Variable("x"))
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
}

func TestEq_RejectsCrossFamilyOperands(t *testing.T) {
	// Integer and Real are one numeric family.
	_, err := Eq(IntConstant(1), Constant(1))
	require.NoError(t, err)

	// Boolean against numeric is a mismatch.
	_, err = Eq(BoolConst(true), Constant(1))
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
}

func TestDiv_IsNotGuarded(t *testing.T) {
	// A zero divisor is representable; callers register the obligation.
	q, err := Div(Variable("x"), Zero())
	require.NoError(t, err)
	assert.Equal(t, "(/ x 0)", q.String())
}

func TestArraySelect_RequiresArraySort(t *testing.T) {
	w := TypedVariable("weight", SortArray)
	sel, err := ArraySelect(w, Variable("idx"))
	require.NoError(t, err)
	assert.Equal(t, SortReal, sel.Sort())
	assert.Equal(t, "(select weight idx)", sel.String())

	_, err = ArraySelect(Variable("notarray"), Variable("idx"))
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
}

func TestConjoinAll_EmptyYieldsTrue(t *testing.T) {
	e, err := ConjoinAll(nil)
	require.NoError(t, err)
	assert.Equal(t, "true", e.String())
}

func TestUninterpretedCall_Rendering(t *testing.T) {
	c := UninterpretedCall("mm", Variable("a"), Variable("b"))
	assert.Equal(t, "(mm a b)", c.String())
	assert.Equal(t, SortReal, c.Sort())

	// Zero-argument applications render as a bare symbol.
	assert.Equal(t, "k", UninterpretedCall("k").String())
}
