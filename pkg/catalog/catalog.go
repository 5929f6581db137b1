// Package catalog defines the authored dataset for the decision graph:
// effect definitions, decisions with their options, the narrative consumers
// that read effects, and the ordered tape list used for causality checks.
// The dataset is immutable once loaded; everything downstream (indexing,
// validation, play) treats it as read-only.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
)

// EffectType is the tagged union over the four effect kinds.
// UnmarshalJSON rejects unknown tags so a typo in the dataset fails at load
// time rather than silently falling through a default branch.
type EffectType string

const (
	EffectStat   EffectType = "stat"
	EffectFlag   EffectType = "flag"
	EffectMemory EffectType = "memory"
	EffectArc    EffectType = "arc"
)

// Valid reports whether t is one of the four defined effect kinds.
func (t EffectType) Valid() bool {
	switch t {
	case EffectStat, EffectFlag, EffectMemory, EffectArc:
		return true
	}
	return false
}

func (t *EffectType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := EffectType(s)
	if !v.Valid() {
		return fmt.Errorf("catalog: unknown effect type %q", s)
	}
	*t = v
	return nil
}

// Effect is a single authored effect definition. Stat effects name a numeric
// stat and a signed delta; flag and arc effects are boolean markers; memory
// effects carry descriptive text and gain a timestamp when applied.
// ConsumedBy is the inline override that marks an effect as consumed without
// a Consumer catalog entry.
type Effect struct {
	ID          string     `json:"id"`
	Type        EffectType `json:"type"`
	Stat        string     `json:"stat,omitempty"`
	Delta       int        `json:"delta,omitempty"`
	Description string     `json:"description,omitempty"`
	ConsumedBy  []string   `json:"consumed_by,omitempty"`
}

// Option is one selectable branch of a decision. Effects lists the effect
// ids the option produces, in application order.
type Option struct {
	ID      string   `json:"id"`
	Effects []string `json:"effects"`
}

// Decision is an authored choice point inside a tape.
type Decision struct {
	ID      string   `json:"id"`
	Tape    string   `json:"tape"`
	Options []Option `json:"options"`
}

// Option returns the option with the given id, if present.
func (d Decision) Option(id string) (Option, bool) {
	for _, opt := range d.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Consumer is a narrative unit's declared read-dependency on effects.
type Consumer struct {
	ID     string   `json:"id"`
	Tape   string   `json:"tape"`
	Checks []string `json:"checks"`
}

// Dataset is the full authored document, keyed by id.
type Dataset struct {
	Decisions map[string]Decision
	Effects   map[string]Effect
	Consumers map[string]Consumer

	// Tapes is the authored narrative order; earlier tapes play first.
	Tapes []string
}

// TapeIndex returns the position of each tape in the authored order.
func (ds *Dataset) TapeIndex() map[string]int {
	idx := make(map[string]int, len(ds.Tapes))
	for i, tape := range ds.Tapes {
		idx[tape] = i
	}
	return idx
}

// DecisionIDs returns all decision ids in sorted order.
func (ds *Dataset) DecisionIDs() []string {
	return sortedKeys(ds.Decisions)
}

// EffectIDs returns all effect ids in sorted order.
func (ds *Dataset) EffectIDs() []string {
	return sortedKeys(ds.Effects)
}

// ConsumerIDs returns all consumer ids in sorted order.
func (ds *Dataset) ConsumerIDs() []string {
	return sortedKeys(ds.Consumers)
}

// OptionCount returns the total number of options across all decisions.
func (ds *Dataset) OptionCount() int {
	n := 0
	for _, d := range ds.Decisions {
		n += len(d.Options)
	}
	return n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
