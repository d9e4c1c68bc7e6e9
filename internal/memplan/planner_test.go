package memplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanner_GreedyReusesDisjointLifetimes(t *testing.T) {
	p := &Plan{Intervals: []*Interval{
		{Name: "a", Start: 0, End: 2, Size: 64},
		{Name: "b", Start: 3, End: 5, Size: 64},
	}}

	cfg := DefaultConfig()
	require.NoError(t, NewPlanner(cfg, nil).Assign(p))

	require.True(t, p.Interval("a").Allocated())
	require.True(t, p.Interval("b").Allocated())
	assert.Equal(t, *p.Interval("a").Offset, *p.Interval("b").Offset, "disjoint lifetimes share storage")
	assert.Equal(t, int64(64), p.ArenaSize)

	reused, err := NewVerifier(cfg, nil).VerifyStorageReuse(p)
	require.NoError(t, err)
	assert.Equal(t, 1, reused)
}

func TestPlanner_GreedySeparatesLiveIntervals(t *testing.T) {
	p := &Plan{Intervals: []*Interval{
		{Name: "a", Start: 0, End: 4, Size: 48},
		{Name: "b", Start: 2, End: 6, Size: 48},
		{Name: "c", Start: 3, End: 5, Size: 16},
	}}

	cfg := DefaultConfig()
	require.NoError(t, NewPlanner(cfg, nil).Assign(p))
	assert.NoError(t, NewVerifier(cfg, nil).Verify(p))
}

func TestPlanner_AlignmentIsRespected(t *testing.T) {
	p := &Plan{Intervals: []*Interval{
		{Name: "a", Start: 0, End: 4, Size: 10},
		{Name: "b", Start: 0, End: 4, Size: 10},
	}}

	cfg := DefaultConfig()
	cfg.Alignment = 32
	require.NoError(t, NewPlanner(cfg, nil).Assign(p))

	for _, iv := range p.Intervals {
		require.True(t, iv.Allocated())
		assert.Zero(t, *iv.Offset%32, "offset %d not aligned", *iv.Offset)
	}
}

func TestPlanner_NaiveNeverReuses(t *testing.T) {
	p := &Plan{Intervals: []*Interval{
		{Name: "a", Start: 0, End: 2, Size: 64},
		{Name: "b", Start: 3, End: 5, Size: 64},
	}}

	cfg := DefaultConfig()
	cfg.Algorithm = AlgorithmNaive
	require.NoError(t, NewPlanner(cfg, nil).Assign(p))

	assert.NotEqual(t, *p.Interval("a").Offset, *p.Interval("b").Offset)
	assert.Equal(t, int64(128), p.ArenaSize)
}

func TestPlanner_AliasInheritsTargetOffset(t *testing.T) {
	p := &Plan{Intervals: []*Interval{
		{Name: "base", Start: 0, End: 4, Size: 64},
		{Name: "view", Start: 1, End: 3, Size: 64, AliasOf: "base"},
	}}

	cfg := DefaultConfig()
	require.NoError(t, NewPlanner(cfg, nil).Assign(p))

	require.True(t, p.Interval("view").Allocated())
	assert.Equal(t, *p.Interval("base").Offset, *p.Interval("view").Offset)
}

func TestPlanner_ExcludedRolesStayUnassigned(t *testing.T) {
	p := &Plan{Intervals: []*Interval{
		{Name: "in", Role: RoleInput, Start: 0, End: 1, Size: 16},
		{Name: "tmp", Role: RoleTemporary, Start: 0, End: 1, Size: 16},
	}}

	cfg := DefaultConfig()
	cfg.AllocGraphInput = false
	require.NoError(t, NewPlanner(cfg, nil).Assign(p))

	assert.False(t, p.Interval("in").Allocated())
	assert.True(t, p.Interval("tmp").Allocated())
}

func TestPlanner_RefusesToReplan(t *testing.T) {
	existing := int64(0)
	p := &Plan{Intervals: []*Interval{
		{Name: "a", Start: 0, End: 2, Size: 64, Offset: &existing},
	}}

	err := NewPlanner(DefaultConfig(), nil).Assign(p)
	assert.Error(t, err)
}

func TestPlanner_RejectsMalformedIntervals(t *testing.T) {
	p := &Plan{Intervals: []*Interval{
		{Name: "a", Start: 5, End: 2, Size: 64},
	}}
	assert.Error(t, NewPlanner(DefaultConfig(), nil).Assign(p))

	p = &Plan{Intervals: []*Interval{
		{Name: "a", Start: 0, End: 2, Size: 64, AliasOf: "ghost"},
	}}
	assert.Error(t, NewPlanner(DefaultConfig(), nil).Assign(p))
}

func TestLoader_ParsesDocument(t *testing.T) {
	doc, err := Parse([]byte(`
config:
  alloc_graph_input: true
  alloc_graph_output: true
  alignment: 16
  algorithm: greedy
plan:
  intervals:
    - name: x
      role: input
      start: 0
      end: 3
      size: 64
    - name: y
      start: 1
      end: 4
      size: 32
      alias_of: x
`))
	require.NoError(t, err)
	assert.Equal(t, AlgorithmGreedy, doc.Config.Algorithm)
	require.Len(t, doc.Plan.Intervals, 2)
	assert.Equal(t, RoleInput, doc.Plan.Intervals[0].Role)
	assert.Equal(t, "x", doc.Plan.Intervals[1].AliasOf)
}

func TestLoader_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("config:\n  allow_overlap: true\n"))
	assert.Error(t, err, "misspelled flags must not silently relax verification")
}

func TestLoader_RejectsNamelessIntervals(t *testing.T) {
	_, err := Parse([]byte("plan:\n  intervals:\n    - start: 0\n      end: 1\n      size: 8\n"))
	assert.Error(t, err)
}
