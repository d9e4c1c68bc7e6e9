// Package memplan assigns storage offsets to tensor lifetime intervals
// and verifies that completed assignments respect the non-overlap
// discipline: two values live at the same time must not share bytes
// unless they are declared aliases or the caller explicitly allows
// storage reuse across overlapping lifetimes.
package memplan

// Role classifies an interval's position in the graph.
type Role string

const (
	RoleInput         Role = "input"
	RoleOutput        Role = "output"
	RoleMutableBuffer Role = "mutable_buffer"
	RoleTemporary     Role = "temporary"
)

// Allocation algorithms. Greedy is first-fit over a sorted interval
// list; naive stacks every interval at a fresh offset.
const (
	AlgorithmGreedy = "greedy"
	AlgorithmNaive  = "naive"
)

// DefaultAlignment is the platform allocation alignment in bytes.
const DefaultAlignment int64 = 16

// Interval is one value's storage lifetime: the step range it is live
// for, its byte size, and (after planning) its assigned offset. An
// interval with AliasOf set shares the named interval's storage and is
// exempt from overlap checking against it.
type Interval struct {
	Name    string `yaml:"name"`
	Role    Role   `yaml:"role,omitempty"`
	Start   int    `yaml:"start"`
	End     int    `yaml:"end"`
	Size    int64  `yaml:"size"`
	AliasOf string `yaml:"alias_of,omitempty"`

	// Offset is nil until a planner assigns one. A nil offset on a
	// value the configuration designates for allocation is a
	// verification failure, not a default of zero.
	Offset *int64 `yaml:"offset,omitempty"`
}

// Allocated reports whether the interval has a storage assignment.
func (iv *Interval) Allocated() bool { return iv.Offset != nil }

// overlapsLifetime reports whether two step ranges intersect. Ranges
// are inclusive on both ends, matching the host IR's node numbering.
func (iv *Interval) overlapsLifetime(other *Interval) bool {
	return iv.Start <= other.End && other.Start <= iv.End
}

// overlapsStorage reports whether two assigned byte ranges intersect.
// Unassigned intervals never overlap.
func (iv *Interval) overlapsStorage(other *Interval) bool {
	if iv.Offset == nil || other.Offset == nil {
		return false
	}
	a0, a1 := *iv.Offset, *iv.Offset+iv.Size
	b0, b1 := *other.Offset, *other.Offset+other.Size
	return a0 < b1 && b0 < a1
}

// aliased reports whether either interval declares the other as its
// storage alias.
func aliased(a, b *Interval) bool {
	return (a.AliasOf != "" && a.AliasOf == b.Name) ||
		(b.AliasOf != "" && b.AliasOf == a.Name)
}

// Config controls which roles participate in allocation and how the
// plan is produced and verified.
type Config struct {
	AllocGraphInput     bool   `yaml:"alloc_graph_input"`
	AllocGraphOutput    bool   `yaml:"alloc_graph_output"`
	AllocMutableBuffers bool   `yaml:"alloc_mutable_buffers"`
	Alignment           int64  `yaml:"alignment"`
	Algorithm           string `yaml:"algorithm"`

	// AllowLifetimeAndStorageOverlap relaxes the reuse check: live
	// intervals may share storage. Opt-in only; never implied.
	AllowLifetimeAndStorageOverlap bool `yaml:"allow_lifetime_and_storage_overlap"`
}

// DefaultConfig allocates everything at the platform alignment using
// the greedy strategy.
func DefaultConfig() Config {
	return Config{
		AllocGraphInput:     true,
		AllocGraphOutput:    true,
		AllocMutableBuffers: true,
		Alignment:           DefaultAlignment,
		Algorithm:           AlgorithmGreedy,
	}
}

func (c Config) alignment() int64 {
	if c.Alignment > 0 {
		return c.Alignment
	}
	return DefaultAlignment
}

// allocates reports whether the configuration designates the role for
// allocation. Temporaries are always allocated.
func (c Config) allocates(r Role) bool {
	switch r {
	case RoleInput:
		return c.AllocGraphInput
	case RoleOutput:
		return c.AllocGraphOutput
	case RoleMutableBuffer:
		return c.AllocMutableBuffers
	default:
		return true
	}
}

// Plan is a set of intervals plus the total arena size once offsets
// are assigned.
type Plan struct {
	Intervals []*Interval `yaml:"intervals"`
	ArenaSize int64       `yaml:"arena_size"`
}

// Interval returns the named interval, or nil.
func (p *Plan) Interval(name string) *Interval {
	for _, iv := range p.Intervals {
		if iv.Name == name {
			return iv
		}
	}
	return nil
}

func alignUp(v, align int64) int64 {
	if align <= 1 {
		return v
	}
	rem := v % align
	if rem == 0 {
		return v
	}
	return v + align - rem
}
