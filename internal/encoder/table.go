package encoder

import (
	"sort"

	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/smt"
)

// Operator identities recognized by the encoder. The spellings follow
// the host exporter's edge dialect.
const (
	OpAdd     = "aten.add.Tensor"
	OpSub     = "aten.sub.Tensor"
	OpMul     = "aten.mul.Tensor"
	OpDiv     = "aten.div.Tensor"
	OpMM      = "aten.mm.default"
	OpBMM     = "aten.bmm.default"
	OpLinear  = "aten.linear.default"
	OpReshape = "aten.view_copy.default"
	OpPermute = "aten.permute_copy.default"
	OpSlice   = "aten.slice_copy.Tensor"
	OpSelect  = "aten.select_copy.int"
	OpSelect2 = "aten.select.int"
	OpCat     = "aten.cat.default"
	OpExpand  = "aten.expand_copy.default"
	OpUnsq    = "aten.unsqueeze_copy.default"
	OpEmbed   = "aten.embedding.default"
	OpIdxPut  = "aten.index_put.default"
	OpSoftmax = "aten._softmax.default"
	OpMeanDim = "aten.mean.dim"
	OpRsqrt   = "aten.rsqrt.default"
	OpSDPA    = "aten.scaled_dot_product_attention.default"
	OpToCopy  = "aten._to_copy.default"
	OpDimCopy = "dim_order_ops._to_dim_order_copy.default"
	OpGetItem = "getitem"
	OpRelu    = "aten.relu.default"
)

// encodeFn converts one call node into an expression, binding the
// result (and possibly a fused consumer's result) into the state's
// register file.
type encodeFn func(p *pass, n *ir.Node) (smt.Expr, error)

// newEncoderTable builds the operator dispatch table once at encoder
// construction. The table is immutable afterwards, and a duplicate
// target registration is a hard error: the supported-operator set must
// be exhaustively visible here, never patched by side effects.
func newEncoderTable() (map[string]encodeFn, error) {
	entries := []struct {
		target string
		fn     encodeFn
	}{
		{OpAdd, encodeAdd},
		{OpSub, encodeSub},
		{OpMul, encodeMul},
		{OpDiv, encodeDiv},
		{OpMM, encodeMM},
		{OpBMM, encodeBMM},
		{OpLinear, encodeLinear},
		{OpReshape, encodeReshape},
		{OpPermute, encodePermute},
		{OpSlice, encodeSlice},
		{OpSelect, encodeSelect},
		{OpSelect2, encodeSelect},
		{OpCat, encodeCat},
		{OpExpand, encodeExpand},
		{OpUnsq, encodeUnsqueeze},
		{OpEmbed, encodeEmbedding},
		{OpIdxPut, encodeIndexPut},
		{OpSoftmax, encodeSoftmax},
		{OpMeanDim, encodeMeanDim},
		{OpRsqrt, encodeRsqrt},
		{OpSDPA, encodeSDPA},
		{OpToCopy, encodeToCopy},
		{OpDimCopy, encodeDimOrderCopy},
		{OpGetItem, encodeGetItem},
	}

	table := make(map[string]encodeFn, len(entries))
	for _, e := range entries {
		if _, dup := table[e.target]; dup {
			return nil, errf(ErrDuplicateTarget, e.target, "",
				"operator %q registered twice in the encoder table", e.target)
		}
		table[e.target] = e.fn
	}
	return table, nil
}

// SupportedOperators returns the operator identities with a registered
// encoder, sorted. The eligibility filter's allow-list must stay a
// subset of this set.
func SupportedOperators() []string {
	table, err := newEncoderTable()
	if err != nil {
		// Construction only fails on a duplicate entry, which is a
		// programming error caught by tests.
		panic(err)
	}
	ops := make([]string, 0, len(table))
	for op := range table {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
