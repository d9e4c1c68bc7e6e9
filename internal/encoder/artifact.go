package encoder

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/symgraph/internal/smt"
)

// Artifact is the serialized product of a completed encoding pass. The
// payload is the UTF-8 NFC-normalized rendering of the final
// expressions, one per line, suitable for byte-stable storage and
// golden comparison.
type Artifact struct {
	// Payload is the canonical serialized form.
	Payload []byte
	// FinalExprs are the rendered output expressions in graph order.
	FinalExprs []string
	// Warnings collects the non-fatal coverage gaps observed during the
	// pass, in occurrence order.
	Warnings []string
}

// DebugMap exposes the artifact's interesting fields for structured
// dumping by diagnostic tooling.
func (a *Artifact) DebugMap() map[string]any {
	return map[string]any{
		"final_smt_exprs": a.FinalExprs,
		"warnings":        a.Warnings,
	}
}

// serialize turns the pass's results into an artifact. In the default
// mode the output expressions alone are rendered. In whole-formula mode
// the artifact instead carries a single Boolean formula: the
// conjunction of one equation per encoded operator, binding the
// operator's identity symbol to its expression, conjoined with the
// overall precondition. Equating identities to expressions, rather
// than conjoining the real-valued expressions themselves, keeps the
// formula sort-correct.
func (e *Encoder) serialize(p *pass, outputs []smt.Expr) (*Artifact, error) {
	var rendered []string
	if e.opts.WholeFormula {
		formula, err := e.wholeFormula(p)
		if err != nil {
			return nil, err
		}
		rendered = []string{formula.String()}
	} else {
		rendered = make([]string, 0, len(outputs))
		for _, o := range outputs {
			rendered = append(rendered, o.String())
		}
	}

	payload := norm.NFC.Bytes([]byte(strings.Join(rendered, "\n")))
	return &Artifact{
		Payload:    payload,
		FinalExprs: rendered,
		Warnings:   p.warnings,
	}, nil
}

func (e *Encoder) wholeFormula(p *pass) (smt.Expr, error) {
	conjuncts := make([]smt.Expr, 0, len(p.topKeys)+1)
	for i, key := range p.topKeys {
		top := p.topExprs[i]
		if top.Sort() == smt.SortBoolean {
			conjuncts = append(conjuncts, top)
			continue
		}
		eq, err := smt.Eq(smt.TypedVariable(key, top.Sort()), top)
		if err != nil {
			return nil, err
		}
		conjuncts = append(conjuncts, eq)
	}
	conjuncts = append(conjuncts, p.st.OverallPrecondition())
	return smt.ConjoinAll(conjuncts)
}
