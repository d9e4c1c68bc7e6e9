package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Key(t *testing.T) {
	ph := &Node{Name: "arg0_1", Target: "x", Kind: KindPlaceholder}
	assert.Equal(t, "x", ph.Key(), "placeholders key by declared target")

	call := &Node{Name: "add", Kind: KindCall, Op: "aten.add.Tensor"}
	assert.Equal(t, "add", call.Key())
}

func TestGraph_Finalize_ComputesUsers(t *testing.T) {
	x := &Node{Name: "x", Target: "x", Kind: KindPlaceholder}
	y := &Node{Name: "y", Target: "y", Kind: KindPlaceholder}
	add := &Node{Name: "add", Kind: KindCall, Op: "aten.add.Tensor",
		Args: []Arg{NodeRef{Node: x}, NodeRef{Node: y}}}
	relu := &Node{Name: "relu", Kind: KindCall, Op: "aten.relu.default",
		Args: []Arg{NodeRef{Node: add}}}
	out := &Node{Name: "output", Kind: KindOutput,
		Args: []Arg{NodeRef{Node: relu}}}

	g := &Graph{Name: "t", Nodes: []*Node{x, y, add, relu, out}}
	require.NoError(t, g.Finalize())

	// Output nodes are not users; only call nodes consume values.
	require.Len(t, add.Users(), 1)
	assert.Equal(t, "relu", add.Users()[0].Name)
	assert.Empty(t, relu.Users())

	got, ok := g.Node("add")
	require.True(t, ok)
	assert.Same(t, add, got)

	o, ok := g.OutputNode()
	require.True(t, ok)
	assert.Same(t, out, o)
}

func TestGraph_Finalize_UsersThroughLists(t *testing.T) {
	a := &Node{Name: "a", Target: "a", Kind: KindPlaceholder}
	b := &Node{Name: "b", Target: "b", Kind: KindPlaceholder}
	cat := &Node{Name: "cat", Kind: KindCall, Op: "aten.cat.default",
		Args: []Arg{ListArg{NodeRef{Node: a}, NodeRef{Node: b}}, IntArg(0)}}

	g := &Graph{Name: "t", Nodes: []*Node{a, b, cat}}
	require.NoError(t, g.Finalize())

	require.Len(t, a.Users(), 1)
	assert.Equal(t, "cat", a.Users()[0].Name)
}

func TestGraph_Finalize_RejectsDuplicateNames(t *testing.T) {
	g := &Graph{Nodes: []*Node{
		{Name: "n", Kind: KindPlaceholder, Target: "n"},
		{Name: "n", Kind: KindPlaceholder, Target: "n2"},
	}}
	assert.Error(t, g.Finalize())
}

func TestGraph_IsParameter(t *testing.T) {
	w := &Node{Name: "w", Target: "w", Kind: KindPlaceholder}
	x := &Node{Name: "x", Target: "x", Kind: KindPlaceholder}
	g := &Graph{
		Nodes:      []*Node{w, x},
		Parameters: map[string]bool{"w": true},
	}
	require.NoError(t, g.Finalize())

	assert.True(t, g.IsParameter(w))
	assert.False(t, g.IsParameter(x))
}

func TestNumElements(t *testing.T) {
	assert.Equal(t, 1, NumElements(nil), "the empty shape is a scalar")
	assert.Equal(t, 1, NumElements([]int{1, 1}))
	assert.Equal(t, 24, NumElements([]int{2, 3, 4}))
}
