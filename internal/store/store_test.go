package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestStore_SaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := Run{
		ID:        "run-1",
		Graph:     "mlp",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Payload:   []byte("(+ x y)"),
		Warnings:  []string{"operator aten.mystery.default skipped"},
	}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Graph, got.Graph)
	assert.Equal(t, run.Payload, got.Payload)
	assert.Equal(t, run.Warnings, got.Warnings)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_SaveRunIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := Run{ID: "run-1", Graph: "mlp", CreatedAt: time.Now(), Payload: []byte("a")}
	require.NoError(t, s.SaveRun(ctx, run))

	// Duplicate ID is silently ignored; the first payload wins.
	run.Payload = []byte("b")
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got.Payload)
}

func TestStore_GetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStore_ListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, s.SaveRun(ctx, Run{
			ID:        id,
			Graph:     "mlp",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Payload:   []byte("p"),
		}))
	}

	runs, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-1", runs[2].ID)
}

func TestStore_ListRunsFiltersByGraph(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, Run{ID: "a", Graph: "mlp", CreatedAt: time.Now(), Payload: []byte("p")}))
	require.NoError(t, s.SaveRun(ctx, Run{ID: "b", Graph: "conv", CreatedAt: time.Now(), Payload: []byte("p")}))

	runs, err := s.ListRuns(ctx, "conv")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "b", runs[0].ID)
}
