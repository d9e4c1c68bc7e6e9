package encoder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/symgraph/internal/smt"
)

// State is the symbolic state of one encoding pass. It owns the
// register file, a running conjunctive precondition (starting at true),
// and the well-definedness table: Boolean side-conditions keyed by
// (operator identity, description), combined by conjunction per slot.
//
// The state is created once per pass, mutated monotonically (bindings
// and conjuncts only accumulate), and discarded after the artifact is
// serialized. It deliberately keeps "what the graph computes" (register
// bindings) separate from "when that computation is valid" (the
// well-definedness table): some operators, division in particular, are
// defined under side-conditions the IR's typing does not guarantee.
type State struct {
	regs    *RegFile
	precond smt.Expr
	welldef map[string]map[string]smt.Expr
}

// NewState creates a fresh symbolic state with a true precondition.
func NewState() *State {
	return &State{
		regs:    NewRegFile(),
		precond: smt.BoolConst(true),
		welldef: make(map[string]map[string]smt.Expr),
	}
}

// Regs returns the state's register file.
func (s *State) Regs() *RegFile { return s.regs }

// AddPrecondition conjoins a Boolean expression into the running
// precondition.
func (s *State) AddPrecondition(e smt.Expr) error {
	combined, err := smt.Conjunction(s.precond, e)
	if err != nil {
		return err
	}
	s.precond = combined
	return nil
}

// OverallPrecondition returns the running precondition.
func (s *State) OverallPrecondition() smt.Expr { return s.precond }

// RecordWellDefinedness conjoins a Boolean side-condition into the
// (operator identity, description) slot, creating the slot if absent.
func (s *State) RecordWellDefinedness(opID, desc string, e smt.Expr) error {
	slot, ok := s.welldef[opID]
	if !ok {
		slot = make(map[string]smt.Expr)
		s.welldef[opID] = slot
	}
	prev, ok := slot[desc]
	if !ok {
		slot[desc] = e
		return nil
	}
	combined, err := smt.Conjunction(prev, e)
	if err != nil {
		return err
	}
	slot[desc] = combined
	return nil
}

// WellDefinednessFor returns the conjunction of all side-conditions
// registered for one operator identity. No registrations yield true.
func (s *State) WellDefinednessFor(opID string) (smt.Expr, error) {
	slot, ok := s.welldef[opID]
	if !ok {
		return smt.BoolConst(true), nil
	}
	return conjoinSlot(slot)
}

// OverallWellDefinedness returns the conjunction across every slot in
// the table. Consumers requiring a sound formula conjoin this with the
// overall precondition; consumers wanting the raw computation skip it.
func (s *State) OverallWellDefinedness() (smt.Expr, error) {
	out := smt.Expr(smt.BoolConst(true))
	for _, opID := range s.wellDefOps() {
		part, err := conjoinSlot(s.welldef[opID])
		if err != nil {
			return nil, err
		}
		out, err = smt.Conjunction(out, part)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// HasWellDefinedness reports whether any side-condition is registered
// for the operator identity.
func (s *State) HasWellDefinedness(opID string) bool {
	return len(s.welldef[opID]) > 0
}

func conjoinSlot(slot map[string]smt.Expr) (smt.Expr, error) {
	descs := make([]string, 0, len(slot))
	for d := range slot {
		descs = append(descs, d)
	}
	sort.Strings(descs)
	out := smt.Expr(smt.BoolConst(true))
	for _, d := range descs {
		var err error
		out, err = smt.Conjunction(out, slot[d])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *State) wellDefOps() []string {
	ops := make([]string, 0, len(s.welldef))
	for op := range s.welldef {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// String renders the full state for debugging: precondition, register
// file, and well-definedness table, in deterministic order.
func (s *State) String() string {
	var b strings.Builder
	b.WriteString("=== State Debug ===\n")
	fmt.Fprintf(&b, "Precondition: %s\n", s.precond.String())
	b.WriteString("Register File:\n")
	b.WriteString(s.regs.String())
	b.WriteString("Well-Definedness Conditions:\n")
	for _, op := range s.wellDefOps() {
		slot := s.welldef[op]
		descs := make([]string, 0, len(slot))
		for d := range slot {
			descs = append(descs, d)
		}
		sort.Strings(descs)
		for _, d := range descs {
			fmt.Fprintf(&b, "  op=%s desc=%q: %s\n", op, d, slot[d].String())
		}
	}
	return b.String()
}
