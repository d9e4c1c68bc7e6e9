package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/symgraph/internal/encoder"
	"github.com/roach88/symgraph/internal/ir"
)

func callNode(name, op string) *ir.Node {
	return &ir.Node{Name: name, Kind: ir.KindCall, Op: op}
}

func TestFilter_AllowsRegisteredOperators(t *testing.T) {
	f := New(Options{})

	assert.True(t, f.IsEligible(callNode("add", encoder.OpAdd)))
	assert.True(t, f.IsEligible(callNode("cat", encoder.OpCat)))
}

func TestFilter_RejectsNonCallKinds(t *testing.T) {
	f := New(Options{})

	ph := &ir.Node{Name: "x", Target: "x", Kind: ir.KindPlaceholder}
	out := &ir.Node{Name: "output", Kind: ir.KindOutput}
	assert.False(t, f.IsEligible(ph))
	assert.False(t, f.IsEligible(out))
}

func TestFilter_DenylistWinsOverAllowlist(t *testing.T) {
	// Even an operator with a registered encoder is rejected when
	// denylisted; the denylist check runs first.
	f := New(Options{Denylist: []string{encoder.OpAdd}})

	assert.False(t, f.IsEligible(callNode("add", encoder.OpAdd)))
	assert.True(t, f.IsEligible(callNode("sub", encoder.OpSub)))
}

func TestFilter_DefaultDenylist(t *testing.T) {
	f := New(Options{})

	for _, op := range DefaultDenylist {
		assert.False(t, f.IsEligible(callNode("n", op)), "denylisted %s", op)
	}
}

func TestFilter_PendingOperatorsAreRejected(t *testing.T) {
	f := New(Options{})

	for _, op := range DefaultPending {
		assert.False(t, f.IsEligible(callNode("n", op)), "pending %s", op)
	}
}

func TestFilter_SkipSets(t *testing.T) {
	f := New(Options{
		SkipNodes: []string{"add_7"},
		SkipOps:   []string{encoder.OpMul},
	})

	assert.False(t, f.IsEligible(callNode("add_7", encoder.OpAdd)))
	assert.True(t, f.IsEligible(callNode("add_8", encoder.OpAdd)))
	assert.False(t, f.IsEligible(callNode("mul_1", encoder.OpMul)))
}

func TestFilter_UnknownOperatorFailsAllowlist(t *testing.T) {
	f := New(Options{})
	assert.False(t, f.IsEligible(callNode("n", "aten.mystery.default")))
}

func TestFilter_EligibleNodes(t *testing.T) {
	x := &ir.Node{Name: "x", Target: "x", Kind: ir.KindPlaceholder}
	add := callNode("add", encoder.OpAdd)
	add.Args = []ir.Arg{ir.NodeRef{Node: x}, ir.NodeRef{Node: x}}
	clone := callNode("clone", "aten.clone.default")
	clone.Args = []ir.Arg{ir.NodeRef{Node: add}}

	g := &ir.Graph{Name: "t", Nodes: []*ir.Node{x, add, clone}}
	require.NoError(t, g.Finalize())

	f := New(Options{})
	eligible := f.EligibleNodes(g)
	require.Len(t, eligible, 1)
	assert.Equal(t, "add", eligible[0].Name)
}
