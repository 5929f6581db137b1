package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/tapedeck/internal/store"
	"github.com/kittclouds/tapedeck/pkg/graph"
)

func TestExportImportRoundTrip(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore())

	_, err := e.ApplyChoice("d1", "optA")
	require.NoError(t, err)
	_, err = e.ApplyChoice("d1", "optB")
	require.NoError(t, err)
	_, err = e.ApplyChoice("d2", "optE")
	require.NoError(t, err)

	snap := e.Export()

	other := newTestEngine(t, store.NewMemStore())
	other.Import(snap)

	assert.Equal(t, e.GetStat("trust"), other.GetStat("trust"))
	assert.Equal(t, e.HasFlag("flag_seen"), other.HasFlag("flag_seen"))
	assert.Equal(t, e.HasArc("arc_loyal"), other.HasArc("arc_loyal"))
	assert.Equal(t, e.GetMemories(), other.GetMemories())
	assert.Equal(t, e.GetHistory(), other.GetHistory())

	// Re-export is canonical: identical documents for identical states.
	assert.Equal(t, snap, other.Export())
}

func TestSnapshotFlagsSorted(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore())

	_, err := e.ApplyChoice("d2", "optE")
	require.NoError(t, err)
	_, err = e.ApplyChoice("d1", "optA")
	require.NoError(t, err)

	snap := e.Export()
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, []string{"flag_seen"}, snap.Flags)
	assert.Equal(t, []string{"arc_loyal"}, snap.Arcs)
}

func TestImportPartialSnapshotKeepsDefaults(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore())

	// Only stats present; every other field keeps its creation default.
	e.Import(Snapshot{Stats: map[string]int{"trust": 40}})

	assert.Equal(t, 40, e.GetStat("trust"))
	assert.Empty(t, e.GetHistory())
	assert.Empty(t, e.GetMemories())
	assert.False(t, e.HasFlag("flag_seen"))
}

func TestImportClampsOutOfRangeStats(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore())

	e.Import(Snapshot{Stats: map[string]int{"trust": 250, "guard": -7}})
	assert.Equal(t, 100, e.GetStat("trust"))
	assert.Equal(t, 0, e.GetStat("guard"))
}

func TestEncodeDecodeSnapshot(t *testing.T) {
	snap := Snapshot{
		Version: SnapshotVersion,
		Stats:   map[string]int{"trust": 42},
		Flags:   []string{"flag_seen"},
		Memories: []Memory{
			{ID: "mem_door", Description: "You left the door open.", Timestamp: 1700000000000},
		},
		Arcs: []string{"arc_loyal"},
		History: []ChoiceRecord{
			{DecisionID: "d1", OptionID: "optA", Timestamp: 1700000000000, Tape: "tape1"},
		},
	}

	blob, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(blob)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte("definitely not zstd"))
	assert.Error(t, err)
}

func TestRestoreSurvivesStoreRoundTrip(t *testing.T) {
	st, err := store.NewSQLiteStore()
	require.NoError(t, err)
	defer st.Close()

	ds := testDataset()
	g := graph.Build(ds)

	e := New(ds, g, st, "slot-sqlite")
	e.now = func() int64 { return 1700000000000 }
	_, err = e.ApplyChoice("d1", "optA")
	require.NoError(t, err)

	restored := New(ds, g, st, "slot-sqlite")
	assert.True(t, restored.Restored())
	assert.Equal(t, 5, restored.GetStat("trust"))
}
