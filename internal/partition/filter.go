// Package partition decides which IR nodes may be handed to the
// symbolic encoder. It exposes a pure eligibility predicate over
// operator identities backed by three static sets (denylist, pending
// list, allowlist) and two caller-supplied runtime skip-sets.
package partition

import (
	"log/slog"

	"github.com/roach88/symgraph/internal/encoder"
	"github.com/roach88/symgraph/internal/ir"
)

// Default operator sets. The denylist names operators that will not be
// supported; the pending list names operators reserved for future
// support, rejected with a distinct logged reason so coverage work can
// be tracked.
var (
	DefaultDenylist = []string{
		"aten.arange.start_step",
		"aten.clone.default",
		"aten.copy.default",
		"aten.full.default",
		"aten.slice_scatter.default",
		"quantized_decomposed.embedding_4bit.dtype",
	}

	DefaultPending = []string{
		"aten.any.dim",
		"aten.eq.Scalar",
		"aten.full_like.default",
		"aten.logical_not.default",
		"aten.where.self",
	}
)

// Filter is the eligibility predicate. The zero value is not usable;
// construct with New.
type Filter struct {
	deny    map[string]struct{}
	pending map[string]struct{}
	allow   map[string]struct{}

	// Runtime exclusions, keyed by node identity and operator name.
	skipNodes map[string]struct{}
	skipOps   map[string]struct{}

	log *slog.Logger
}

// Options configures a Filter. Zero-valued fields fall back to the
// defaults: the built-in deny/pending lists and the encoder's
// registered operator table as the allowlist.
type Options struct {
	Denylist  []string
	Pending   []string
	Allowlist []string
	SkipNodes []string
	SkipOps   []string
	Logger    *slog.Logger
}

// New builds a Filter from the options.
func New(opts Options) *Filter {
	deny := opts.Denylist
	if deny == nil {
		deny = DefaultDenylist
	}
	pending := opts.Pending
	if pending == nil {
		pending = DefaultPending
	}
	allow := opts.Allowlist
	if allow == nil {
		allow = encoder.SupportedOperators()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Filter{
		deny:      toSet(deny),
		pending:   toSet(pending),
		allow:     toSet(allow),
		skipNodes: toSet(opts.SkipNodes),
		skipOps:   toSet(opts.SkipOps),
		log:       log,
	}
}

// IsEligible reports whether the node may be encoded symbolically.
// Checks short-circuit in a fixed order: call-kind, denylist, pending
// list, skip-sets, allowlist. The first failing check determines the
// logged rejection reason.
func (f *Filter) IsEligible(n *ir.Node) bool {
	if n.Kind != ir.KindCall {
		return false
	}
	if _, ok := f.deny[n.Op]; ok {
		f.reject(n, "operator is denylisted")
		return false
	}
	if _, ok := f.pending[n.Op]; ok {
		f.reject(n, "operator is reserved for future support")
		return false
	}
	if _, ok := f.skipNodes[n.Key()]; ok {
		f.reject(n, "node is in the caller skip-set")
		return false
	}
	if _, ok := f.skipOps[n.Op]; ok {
		f.reject(n, "operator is in the caller skip-set")
		return false
	}
	if _, ok := f.allow[n.Op]; !ok {
		f.reject(n, "operator has no registered encoder")
		return false
	}
	return true
}

// EligibleNodes returns the eligible subset of the graph's nodes in
// definition order.
func (f *Filter) EligibleNodes(g *ir.Graph) []*ir.Node {
	var out []*ir.Node
	for _, n := range g.Nodes {
		if f.IsEligible(n) {
			out = append(out, n)
		}
	}
	return out
}

func (f *Filter) reject(n *ir.Node, reason string) {
	f.log.Debug("node rejected for symbolic encoding",
		slog.String("node", n.Key()),
		slog.String("op", n.Op),
		slog.String("reason", reason))
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
