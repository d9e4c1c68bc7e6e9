package smt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatShape(t *testing.T) {
	assert.Equal(t, "2x3x4", FormatShape([]int{2, 3, 4}))
	assert.Equal(t, "_", FormatShape(nil))
	assert.Equal(t, "_", FormatShape([]int{}))
}

func TestReshape_SymbolEmbedsBothShapes(t *testing.T) {
	x := Variable("x")
	e := Reshape(x, []int{2, 3}, []int{6})
	assert.Equal(t, "(reshape_2x3_6 x)", e.String())

	// Unknown new shape falls back to the empty marker.
	e = Reshape(x, []int{2, 3}, nil)
	assert.Equal(t, "(reshape_2x3__ x)", e.String())
}

func TestConcat_SymbolEncodesAxisAndCount(t *testing.T) {
	a, b, c := Variable("a"), Variable("b"), Variable("c")
	e := Concat(0, []Expr{a, b})
	assert.Equal(t, "(concat_axis0_n2 a b)", e.String())

	e = Concat(2, []Expr{a, b, c})
	assert.Equal(t, "(concat_axis2_n3 a b c)", e.String())
}

func TestIdenticalOperations_ProduceIdenticalSymbols(t *testing.T) {
	x := Variable("x")
	first := Slice(x, []int{4, 8}, 1, 0, 4)
	second := Slice(x, []int{4, 8}, 1, 0, 4)
	assert.Equal(t, first.String(), second.String())

	// Different parameters never unify.
	third := Slice(x, []int{4, 8}, 1, 4, 4)
	assert.NotEqual(t, first.String(), third.String())
}

func TestMMAndBMM_AreDistinctSymbols(t *testing.T) {
	a, b := Variable("a"), Variable("b")
	assert.NotEqual(t, MM(a, b).String(), BMM(a, b).String())
}

func TestTransposeND_RendersPermutation(t *testing.T) {
	e := TransposeND(Variable("x"), []int{0, 2, 3, 1})
	assert.Equal(t, "(transpose_0_2_3_1 x)", e.String())
}

func TestCanTranspose(t *testing.T) {
	assert.True(t, CanTranspose(Variable("w")))
	assert.True(t, CanTranspose(UninterpretedCall("mm", Variable("a"), Variable("b"))))
	assert.False(t, CanTranspose(Constant(2)))
}
