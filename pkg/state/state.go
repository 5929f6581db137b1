// Package state implements the mutable player runtime: stat values, active
// flags, collected memories, unlocked arcs, and the chronological choice
// history. All mutation flows through Engine.ApplyChoice; queries hand out
// defensive copies. One Engine per player/save slot.
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/kittclouds/tapedeck/internal/store"
	"github.com/kittclouds/tapedeck/pkg/catalog"
	"github.com/kittclouds/tapedeck/pkg/graph"
)

var (
	// ErrUnknownDecision signals a decision id absent from the catalog.
	// Choices should only be offered from the catalog, so this is a caller bug.
	ErrUnknownDecision = errors.New("state: unknown decision")

	// ErrUnknownOption signals an option id not among the decision's options.
	ErrUnknownOption = errors.New("state: unknown option")
)

// Memory is one collected memory effect, in application order.
type Memory struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
}

// ChoiceRecord is one history entry, in application order.
type ChoiceRecord struct {
	DecisionID string `json:"decisionId"`
	OptionID   string `json:"optionId"`
	Timestamp  int64  `json:"timestamp"`
	Tape       string `json:"tape"`
}

// PlayerState holds the accumulated consequences of every choice made.
type PlayerState struct {
	Stats       map[string]int
	ActiveFlags map[string]bool
	Memories    []Memory
	ArcFlags    map[string]bool
	History     []ChoiceRecord
}

func newPlayerState() *PlayerState {
	return &PlayerState{
		Stats:       make(map[string]int),
		ActiveFlags: make(map[string]bool),
		Memories:    []Memory{},
		ArcFlags:    make(map[string]bool),
		History:     []ChoiceRecord{},
	}
}

// ChoiceResult is the outcome of a successful ApplyChoice call.
type ChoiceResult struct {
	Decision catalog.Decision
	Option   catalog.Option

	// Applied lists the effect ids that resolved and were applied, in order.
	Applied []string

	// UnknownEffects lists effect ids the option named but the catalog does
	// not define. Authoring defects are skipped, never fatal to the session.
	UnknownEffects []string

	// State is a copy of the player state after the choice.
	State *PlayerState

	// PersistErr records a best-effort persistence failure. In-memory state
	// remains authoritative for the session.
	PersistErr error
}

// Engine applies choices against the catalogs and owns the player state.
// It is an explicit context object; construct one per session or test and
// pass it where needed. Callers must keep at most one mutation in flight.
type Engine struct {
	mu    sync.RWMutex
	ds    *catalog.Dataset
	graph *graph.DecisionGraph
	store store.Storer
	slot  string
	state *PlayerState

	restored bool

	now func() int64
}

// New creates an engine for the given save slot, restoring the persisted
// snapshot when one exists and decodes cleanly. A missing, unreadable, or
// corrupt snapshot falls back to creation defaults; storage trouble never
// keeps the engine from becoming queryable.
func New(ds *catalog.Dataset, g *graph.DecisionGraph, st store.Storer, slot string) *Engine {
	e := &Engine{
		ds:    ds,
		graph: g,
		store: st,
		slot:  slot,
		state: newPlayerState(),
		now:   func() int64 { return time.Now().UnixMilli() },
	}

	rec, err := st.GetSnapshot(slot)
	if err == nil && rec != nil {
		if snap, decErr := DecodeSnapshot(rec.Data); decErr == nil {
			e.importLocked(snap)
			e.restored = true
		}
	}
	return e
}

// Restored reports whether the engine started from a persisted snapshot.
func (e *Engine) Restored() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.restored
}

// Slot returns the save slot this engine persists under.
func (e *Engine) Slot() string {
	return e.slot
}

// ApplyChoice applies the chosen option's effects, appends a history entry,
// and persists the resulting snapshot. Stat effects saturate at [0,100];
// flag and arc effects are idempotent set inserts; memory effects append a
// record each time they apply.
func (e *Engine) ApplyChoice(decisionID, optionID string) (*ChoiceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	decision, ok := e.ds.Decisions[decisionID]
	if !ok {
		return nil, ErrUnknownDecision
	}
	option, ok := decision.Option(optionID)
	if !ok {
		return nil, ErrUnknownOption
	}

	ts := e.now()
	e.state.History = append(e.state.History, ChoiceRecord{
		DecisionID: decisionID,
		OptionID:   optionID,
		Timestamp:  ts,
		Tape:       decision.Tape,
	})

	result := &ChoiceResult{
		Decision: decision,
		Option:   option,
	}
	for _, effectID := range option.Effects {
		effect, ok := e.ds.Effects[effectID]
		if !ok {
			result.UnknownEffects = append(result.UnknownEffects, effectID)
			continue
		}
		e.applyEffect(effect, ts)
		result.Applied = append(result.Applied, effectID)
	}

	result.PersistErr = e.persistLocked()
	result.State = e.state.clone()
	return result, nil
}

func (e *Engine) applyEffect(effect catalog.Effect, ts int64) {
	switch effect.Type {
	case catalog.EffectStat:
		e.state.Stats[effect.Stat] = clampStat(e.state.Stats[effect.Stat] + effect.Delta)
	case catalog.EffectFlag:
		e.state.ActiveFlags[effect.ID] = true
	case catalog.EffectArc:
		e.state.ArcFlags[effect.ID] = true
	case catalog.EffectMemory:
		e.state.Memories = append(e.state.Memories, Memory{
			ID:          effect.ID,
			Description: effect.Description,
			Timestamp:   ts,
		})
	}
}

// Reset clears the player state to creation defaults and erases the durable
// record. The in-memory reset always happens; a storage failure is returned
// for observation only.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = newPlayerState()
	e.restored = false
	return e.store.DeleteSnapshot(e.slot)
}

// persistLocked writes the current snapshot. Callers hold e.mu.
func (e *Engine) persistLocked() error {
	data, err := EncodeSnapshot(e.exportLocked())
	if err != nil {
		return err
	}
	return e.store.PutSnapshot(e.slot, SnapshotVersion, data)
}

// clampStat saturates a stat into [0,100]. Overflow clamps instead of
// erroring so repeated positive choices cannot push a stat out of range.
func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (s *PlayerState) clone() *PlayerState {
	out := &PlayerState{
		Stats:       make(map[string]int, len(s.Stats)),
		ActiveFlags: make(map[string]bool, len(s.ActiveFlags)),
		Memories:    make([]Memory, len(s.Memories)),
		ArcFlags:    make(map[string]bool, len(s.ArcFlags)),
		History:     make([]ChoiceRecord, len(s.History)),
	}
	for k, v := range s.Stats {
		out.Stats[k] = v
	}
	for k := range s.ActiveFlags {
		out.ActiveFlags[k] = true
	}
	for k := range s.ArcFlags {
		out.ArcFlags[k] = true
	}
	copy(out.Memories, s.Memories)
	copy(out.History, s.History)
	return out
}
