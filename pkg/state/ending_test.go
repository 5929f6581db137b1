package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/tapedeck/internal/store"
)

func intPtr(v int) *int { return &v }

func TestDetermineEndingFirstMatchByOrder(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore())

	// trust 0 +10 +10 = 20, +5 = 25; no flags required by ending A.
	_, err := e.ApplyChoice("d2", "optA")
	require.NoError(t, err)
	_, err = e.ApplyChoice("d2", "optA")
	require.NoError(t, err)
	_, err = e.ApplyChoice("d1", "optA")
	require.NoError(t, err)
	require.Equal(t, 25, e.GetStat("trust"))

	endings := []EndingDef{
		{ID: "A", MinTrust: intPtr(20)},
		{ID: "B", Requires: []string{"e_x"}},
		{ID: "default"},
	}

	res := e.DetermineEnding(endings)
	assert.Equal(t, "A", res.ID, "priority list: first match wins, not best match")
	assert.True(t, res.Matched)
}

func TestDetermineEndingRequiresFlagsOrArcs(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore())

	_, err := e.ApplyChoice("d2", "optE") // unlocks arc_loyal
	require.NoError(t, err)
	_, err = e.ApplyChoice("d1", "optA") // sets flag_seen
	require.NoError(t, err)

	res := e.DetermineEnding([]EndingDef{
		{ID: "loyalist", Requires: []string{"arc_loyal", "flag_seen"}},
	})
	assert.Equal(t, "loyalist", res.ID, "requires accepts flags and arc markers alike")
	assert.True(t, res.Matched)
}

func TestDetermineEndingThresholds(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore())

	_, err := e.ApplyChoice("d2", "optA") // trust 10
	require.NoError(t, err)

	res := e.DetermineEnding([]EndingDef{
		{ID: "trusted", MinTrust: intPtr(11)},
		{ID: "guarded", MinGuard: intPtr(1)},
	})
	assert.Equal(t, DefaultEndingID, res.ID)
	assert.False(t, res.Matched)

	res = e.DetermineEnding([]EndingDef{
		{ID: "trusted", MinTrust: intPtr(10)},
	})
	assert.Equal(t, "trusted", res.ID, "threshold is inclusive")
}

func TestDetermineEndingDefaultFallback(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore())

	res := e.DetermineEnding(nil)
	assert.Equal(t, DefaultEndingID, res.ID)
	assert.False(t, res.Matched)
}
