package memplan

import (
	"log/slog"
)

// Verifier checks a completed storage assignment against the plan's
// configuration. Violations are fatal and never downgraded; the only
// relaxation is the configuration's explicit overlap-allowance flag.
type Verifier struct {
	cfg Config
	log *slog.Logger
}

// NewVerifier creates a Verifier. A nil logger uses the default.
func NewVerifier(cfg Config, log *slog.Logger) *Verifier {
	if log == nil {
		log = slog.Default()
	}
	return &Verifier{cfg: cfg, log: log}
}

// Verify runs the allocation-presence check, and for greedy plans the
// storage-reuse check as well. Greedy actively packs disjoint lifetimes
// into shared bytes, so its plans get the extra scrutiny; the baseline
// strategies never reuse storage and have nothing to check.
func (v *Verifier) Verify(p *Plan) error {
	if err := v.VerifyGraphInputOutput(p); err != nil {
		return err
	}
	if v.cfg.Algorithm == AlgorithmGreedy || v.cfg.Algorithm == "" {
		if _, err := v.VerifyStorageReuse(p); err != nil {
			return err
		}
	}
	return nil
}

// VerifyStorageReuse checks every interval pair: overlapping lifetimes
// with no declared aliasing relation must occupy disjoint byte ranges.
// It returns the count of reuse pairs, intervals with disjoint
// lifetimes sharing bytes, for diagnostics.
func (v *Verifier) VerifyStorageReuse(p *Plan) (int, error) {
	reused := 0
	for i, a := range p.Intervals {
		for _, b := range p.Intervals[i+1:] {
			if aliased(a, b) || !a.overlapsStorage(b) {
				continue
			}
			if a.overlapsLifetime(b) {
				if v.cfg.AllowLifetimeAndStorageOverlap {
					v.log.Warn("live intervals share storage under the overlap allowance",
						slog.String("a", a.Name), slog.String("b", b.Name))
					continue
				}
				return reused, planErrf(ErrStorageOverlap, a.Name,
					"shares bytes [%d,%d) with %s while both are live (steps %d-%d vs %d-%d)",
					*a.Offset, *a.Offset+a.Size, b.Name, a.Start, a.End, b.Start, b.End)
			}
			reused++
		}
	}
	v.log.Info("storage reuse verified", slog.Int("reuse_pairs", reused))
	return reused, nil
}

// VerifyGraphInputOutput checks that every value the configuration
// designates for allocation carries an assignment.
func (v *Verifier) VerifyGraphInputOutput(p *Plan) error {
	for _, iv := range p.Intervals {
		if !v.cfg.allocates(iv.Role) {
			continue
		}
		if !iv.Allocated() {
			return planErrf(ErrMissingAllocation, iv.Name,
				"%s value designated for allocation has no storage assignment", iv.Role)
		}
	}
	return nil
}
