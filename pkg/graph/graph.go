// Package graph builds the reverse indices over the authored catalogs:
// which decisions produce an effect, which consumers read it, and the single
// canonical producer used for callback and debug lookups.
package graph

import (
	"sort"

	"github.com/kittclouds/tapedeck/pkg/catalog"
)

// DecisionGraph holds the derived reverse maps. It is a pure function of the
// dataset, built once, and never touches player state.
type DecisionGraph struct {
	// producersOf: effect id -> sorted, deduplicated decision ids.
	producersOf map[string][]string

	// consumersOf: effect id -> sorted, deduplicated consumer ids.
	consumersOf map[string][]string

	// producedBy: effect id -> canonical producing decision. Last writer
	// wins over decisions iterated in sorted id order, so the map is
	// deterministic even when several decisions produce the same effect.
	producedBy map[string]string
}

// Build constructs the reverse indices in a single pass over the dataset.
func Build(ds *catalog.Dataset) *DecisionGraph {
	g := &DecisionGraph{
		producersOf: make(map[string][]string),
		consumersOf: make(map[string][]string),
		producedBy:  make(map[string]string),
	}

	for _, decisionID := range ds.DecisionIDs() {
		d := ds.Decisions[decisionID]
		for _, opt := range d.Options {
			for _, effectID := range opt.Effects {
				g.producedBy[effectID] = decisionID
				g.producersOf[effectID] = appendUnique(g.producersOf[effectID], decisionID)
			}
		}
	}

	for _, consumerID := range ds.ConsumerIDs() {
		c := ds.Consumers[consumerID]
		for _, effectID := range c.Checks {
			g.consumersOf[effectID] = appendUnique(g.consumersOf[effectID], consumerID)
		}
	}

	for _, ids := range g.producersOf {
		sort.Strings(ids)
	}
	for _, ids := range g.consumersOf {
		sort.Strings(ids)
	}
	return g
}

// ProducersOf returns the decisions that can produce the effect.
func (g *DecisionGraph) ProducersOf(effectID string) []string {
	return copyIDs(g.producersOf[effectID])
}

// ConsumersOf returns the consumers that check the effect.
func (g *DecisionGraph) ConsumersOf(effectID string) []string {
	return copyIDs(g.consumersOf[effectID])
}

// ProducedBy returns the canonical producer of the effect, if any.
func (g *DecisionGraph) ProducedBy(effectID string) (string, bool) {
	id, ok := g.producedBy[effectID]
	return id, ok
}

// IsProduced reports whether any option produces the effect.
func (g *DecisionGraph) IsProduced(effectID string) bool {
	_, ok := g.producedBy[effectID]
	return ok
}

// ProducedEffects returns every produced effect id in sorted order.
func (g *DecisionGraph) ProducedEffects() []string {
	ids := make([]string, 0, len(g.producedBy))
	for id := range g.producedBy {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ProducedSet returns the deduplicated set of effect ids an option produces.
// Repeats within an option collapse; the ghost-decision check compares these
// sets across a decision's options.
func ProducedSet(opt catalog.Option) map[string]bool {
	set := make(map[string]bool, len(opt.Effects))
	for _, id := range opt.Effects {
		set[id] = true
	}
	return set
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func copyIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
