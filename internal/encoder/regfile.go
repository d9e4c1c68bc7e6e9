package encoder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/symgraph/internal/smt"
)

// Binding pairs an expression with its type tag ("Tensor", "Integer").
// The tag is carried for downstream sort disambiguation; the register
// file itself never interprets it.
type Binding struct {
	Expr smt.Expr
	Type string
}

// RegFile is the append-only mapping from IR value identity to its
// encoded expression. A given identity is bound at most once per
// symbolic state: re-binding is an error, not a silent overwrite, which
// enforces the IR's single-static-assignment property. There is no
// removal; entries persist for the lifetime of the owning State.
type RegFile struct {
	m map[string]Binding
}

// NewRegFile creates an empty register file.
func NewRegFile() *RegFile {
	return &RegFile{m: make(map[string]Binding)}
}

// Bind registers an expression under an identity. Returns a
// DuplicateBinding error if the identity is already bound, regardless
// of whether the new binding is identical.
func (r *RegFile) Bind(id string, expr smt.Expr, typeTag string) error {
	if _, exists := r.m[id]; exists {
		return errf(ErrDuplicateBinding, "", id, "identity %q already bound", id)
	}
	r.m[id] = Binding{Expr: expr, Type: typeTag}
	return nil
}

// Lookup returns the binding for an identity. Returns an
// UnboundIdentifier error if absent.
func (r *RegFile) Lookup(id string) (Binding, error) {
	b, ok := r.m[id]
	if !ok {
		return Binding{}, errf(ErrUnboundIdentifier, "", id, "identity %q is not bound", id)
	}
	return b, nil
}

// Expr returns just the expression for an identity.
func (r *RegFile) Expr(id string) (smt.Expr, error) {
	b, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return b.Expr, nil
}

// Contains reports whether an identity is bound.
func (r *RegFile) Contains(id string) bool {
	_, ok := r.m[id]
	return ok
}

// Len returns the number of bindings.
func (r *RegFile) Len() int { return len(r.m) }

// Keys returns all bound identities in sorted order, for deterministic
// diagnostics.
func (r *RegFile) Keys() []string {
	keys := make([]string, 0, len(r.m))
	for k := range r.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the register file for debugging.
func (r *RegFile) String() string {
	var b strings.Builder
	for _, k := range r.Keys() {
		bind := r.m[k]
		fmt.Fprintf(&b, "  %s: (%s) %s\n", k, bind.Type, bind.Expr.String())
	}
	return b.String()
}
