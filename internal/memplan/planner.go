package memplan

import (
	"fmt"
	"log/slog"
	"sort"
)

// Planner assigns offsets to a plan's intervals using the configured
// algorithm. Aliased intervals inherit their target's offset and are
// never placed independently.
type Planner struct {
	cfg Config
	log *slog.Logger
}

// NewPlanner creates a Planner. A nil logger uses the default.
func NewPlanner(cfg Config, log *slog.Logger) *Planner {
	if log == nil {
		log = slog.Default()
	}
	return &Planner{cfg: cfg, log: log}
}

// Assign places every allocatable interval and records the resulting
// arena size on the plan. Intervals of roles the configuration excludes
// from allocation are left unassigned. Already-assigned offsets are an
// error: planning is a one-shot operation over a fresh plan.
func (pl *Planner) Assign(p *Plan) error {
	for _, iv := range p.Intervals {
		if iv.Offset != nil {
			return planErrf(ErrAlreadyPlanned, iv.Name,
				"interval already carries an offset; refusing to replan")
		}
		if iv.Size < 0 {
			return planErrf(ErrBadInterval, iv.Name, "negative size %d", iv.Size)
		}
		if iv.End < iv.Start {
			return planErrf(ErrBadInterval, iv.Name,
				"lifetime ends at step %d before it starts at step %d", iv.End, iv.Start)
		}
	}

	switch pl.cfg.Algorithm {
	case AlgorithmNaive:
		pl.assignNaive(p)
	case AlgorithmGreedy, "":
		pl.assignGreedy(p)
	default:
		return planErrf(ErrBadConfig, "", "unknown allocation algorithm %q", pl.cfg.Algorithm)
	}

	return pl.resolveAliases(p)
}

// assignNaive stacks intervals end to end. Simple, never reuses
// storage, useful as a baseline when debugging overlap reports.
func (pl *Planner) assignNaive(p *Plan) {
	var next int64
	for _, iv := range p.Intervals {
		if !pl.placeable(iv) {
			continue
		}
		off := alignUp(next, pl.cfg.alignment())
		iv.Offset = &off
		next = off + iv.Size
	}
	p.ArenaSize = alignUp(next, pl.cfg.alignment())
}

// assignGreedy is first-fit: intervals are considered largest-first and
// each takes the lowest aligned offset whose byte range is free for the
// whole of its lifetime.
func (pl *Planner) assignGreedy(p *Plan) {
	order := make([]*Interval, 0, len(p.Intervals))
	for _, iv := range p.Intervals {
		if pl.placeable(iv) {
			order = append(order, iv)
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].Size > order[j].Size })

	var placed []*Interval
	var arena int64
	for _, iv := range order {
		off := pl.firstFit(iv, placed)
		iv.Offset = &off
		placed = append(placed, iv)
		if end := off + iv.Size; end > arena {
			arena = end
		}
		pl.log.Debug("placed interval",
			slog.String("name", iv.Name),
			slog.Int64("offset", off),
			slog.Int64("size", iv.Size))
	}
	p.ArenaSize = alignUp(arena, pl.cfg.alignment())
}

// firstFit scans candidate offsets in ascending order. Whenever the
// trial range collides with a lifetime-overlapping placed interval the
// trial offset jumps past the collision, so the scan is linear in the
// number of placed intervals per restart.
func (pl *Planner) firstFit(iv *Interval, placed []*Interval) int64 {
	align := pl.cfg.alignment()
	off := int64(0)
	for {
		off = alignUp(off, align)
		moved := false
		for _, other := range placed {
			if !iv.overlapsLifetime(other) {
				continue
			}
			o0, o1 := *other.Offset, *other.Offset+other.Size
			if off < o1 && o0 < off+iv.Size {
				off = o1
				moved = true
			}
		}
		if !moved {
			return off
		}
	}
}

// placeable reports whether the planner should assign the interval
// itself: its role must be allocatable and it must not alias another
// interval's storage.
func (pl *Planner) placeable(iv *Interval) bool {
	return pl.cfg.allocates(iv.Role) && iv.AliasOf == ""
}

// resolveAliases copies offsets onto aliasing intervals after their
// targets are placed.
func (pl *Planner) resolveAliases(p *Plan) error {
	for _, iv := range p.Intervals {
		if iv.AliasOf == "" {
			continue
		}
		target := p.Interval(iv.AliasOf)
		if target == nil {
			return planErrf(ErrBadInterval, iv.Name, "aliases unknown interval %q", iv.AliasOf)
		}
		if target.Offset == nil {
			// Target excluded from allocation; the alias stays
			// unassigned with it.
			continue
		}
		off := *target.Offset
		iv.Offset = &off
	}
	return nil
}

func planErrf(code, name, format string, args ...any) *VerifyError {
	return &VerifyError{Code: code, Interval: name, Message: fmt.Sprintf(format, args...)}
}
