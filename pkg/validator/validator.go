// Package validator runs static analysis over the authored catalogs and the
// derived reverse indices. It proves the decision graph has no broken
// references, no ghost choices, and no causality violations, without ever
// touching player state. It runs on the dataset, independent of any
// play-through.
package validator

import (
	"fmt"
	"sort"

	"github.com/kittclouds/tapedeck/pkg/catalog"
	"github.com/kittclouds/tapedeck/pkg/graph"
)

// Severity separates findings that block a pass from informational ones.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding codes. Errors block the pass verdict; warnings are informational.
const (
	CodeBrokenReference    = "BROKEN_REFERENCE"
	CodeGhostEffect        = "GHOST_EFFECT"
	CodeUnusedEffect       = "UNUSED_EFFECT"
	CodeGhostDecision      = "GHOST_DECISION"
	CodeBackwardDependency = "BACKWARD_DEPENDENCY"
	CodeUnknownTape        = "UNKNOWN_TAPE"
)

// Finding is one detected defect in the authored dataset.
type Finding struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
}

// Stats summarizes the dataset and the defect counts for the CLI block.
type Stats struct {
	Decisions int `json:"decisions"`
	Options   int `json:"options"`
	Effects   int `json:"effects"`
	Consumers int `json:"consumers"`
	Broken    int `json:"broken"`
	Ghosts    int `json:"ghosts"`
	Unused    int `json:"unused"`
}

// Verdict is the overall outcome of a validation run.
type Verdict string

const (
	Pass             Verdict = "pass"
	PassWithWarnings Verdict = "pass with warnings"
	Fail             Verdict = "fail"
)

// Report holds the categorized findings of one validation run.
type Report struct {
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
	Stats    Stats     `json:"stats"`
}

// Verdict is fail iff the error list is non-empty.
func (r *Report) Verdict() Verdict {
	switch {
	case len(r.Errors) > 0:
		return Fail
	case len(r.Warnings) > 0:
		return PassWithWarnings
	default:
		return Pass
	}
}

// Check runs every consistency check over the dataset and its indices.
// The checks are independent; findings are sorted by code, subject, message
// so output is stable across runs.
func Check(ds *catalog.Dataset, g *graph.DecisionGraph) *Report {
	r := &Report{
		Stats: Stats{
			Decisions: len(ds.Decisions),
			Options:   ds.OptionCount(),
			Effects:   len(ds.Effects),
			Consumers: len(ds.Consumers),
		},
	}

	checkBrokenReferences(ds, r)
	checkGhostEffects(ds, g, r)
	checkUnusedEffects(ds, g, r)
	checkGhostDecisions(ds, r)
	checkBackwardDependencies(ds, g, r)

	sortFindings(r.Errors)
	sortFindings(r.Warnings)
	return r
}

// checkBrokenReferences flags every effect id named by an option or a
// consumer that the effect catalog does not define. One finding per unique
// (source, effect) pair.
func checkBrokenReferences(ds *catalog.Dataset, r *Report) {
	seen := make(map[string]bool)

	report := func(source, effectID, message string) {
		key := source + "\x00" + effectID
		if seen[key] {
			return
		}
		seen[key] = true
		r.Stats.Broken++
		r.Errors = append(r.Errors, Finding{
			Code:     CodeBrokenReference,
			Severity: SeverityError,
			Subject:  effectID,
			Message:  message,
		})
	}

	for _, decisionID := range ds.DecisionIDs() {
		d := ds.Decisions[decisionID]
		for _, opt := range d.Options {
			for _, effectID := range opt.Effects {
				if _, ok := ds.Effects[effectID]; !ok {
					report(decisionID+"/"+opt.ID, effectID, fmt.Sprintf(
						"option %s of decision %s produces undefined effect %q",
						opt.ID, decisionID, effectID))
				}
			}
		}
	}
	for _, consumerID := range ds.ConsumerIDs() {
		c := ds.Consumers[consumerID]
		for _, effectID := range c.Checks {
			if _, ok := ds.Effects[effectID]; !ok {
				report(consumerID, effectID, fmt.Sprintf(
					"consumer %s checks undefined effect %q", consumerID, effectID))
			}
		}
	}
}

// checkGhostEffects flags produced flag/memory effects nothing ever reads:
// content was authored but can never influence anything downstream.
// Stat and arc effects are exempt (stats feed thresholds, arcs feed endings),
// as is any effect with an inline consumed_by override.
func checkGhostEffects(ds *catalog.Dataset, g *graph.DecisionGraph, r *Report) {
	for _, effectID := range ds.EffectIDs() {
		effect := ds.Effects[effectID]
		if effect.Type == catalog.EffectStat || effect.Type == catalog.EffectArc {
			continue
		}
		if len(effect.ConsumedBy) > 0 {
			continue
		}
		if !g.IsProduced(effectID) {
			continue
		}
		if len(g.ConsumersOf(effectID)) > 0 {
			continue
		}
		r.Stats.Ghosts++
		r.Warnings = append(r.Warnings, Finding{
			Code:     CodeGhostEffect,
			Severity: SeverityWarning,
			Subject:  effectID,
			Message: fmt.Sprintf("effect %q is produced but never consumed by any check",
				effectID),
		})
	}
}

// checkUnusedEffects flags defined effects no option produces.
func checkUnusedEffects(ds *catalog.Dataset, g *graph.DecisionGraph, r *Report) {
	for _, effectID := range ds.EffectIDs() {
		if g.IsProduced(effectID) {
			continue
		}
		r.Stats.Unused++
		r.Warnings = append(r.Warnings, Finding{
			Code:     CodeUnusedEffect,
			Severity: SeverityWarning,
			Subject:  effectID,
			Message:  fmt.Sprintf("effect %q is defined but never produced by any option", effectID),
		})
	}
}

// checkGhostDecisions flags decisions with two or more options whose
// deduplicated effect sets are pairwise identical: the choice is cosmetic,
// with no mechanical consequence regardless of narrative framing.
func checkGhostDecisions(ds *catalog.Dataset, r *Report) {
	for _, decisionID := range ds.DecisionIDs() {
		d := ds.Decisions[decisionID]
		if len(d.Options) < 2 {
			continue
		}

		first := graph.ProducedSet(d.Options[0])
		identical := true
		for _, opt := range d.Options[1:] {
			if !sameSet(first, graph.ProducedSet(opt)) {
				identical = false
				break
			}
		}
		if !identical {
			continue
		}
		r.Errors = append(r.Errors, Finding{
			Code:     CodeGhostDecision,
			Severity: SeverityError,
			Subject:  decisionID,
			Message: fmt.Sprintf("decision %q has %d options with identical effect sets",
				decisionID, len(d.Options)),
		})
	}
}

// checkBackwardDependencies walks every consumer/producer pair: a consumer
// in tape T checking effect E fails when any producer of E sits in a tape
// strictly after T, because the narrative would read the value before it can
// exist. Consumers or producers in tapes missing from the authored order are
// skipped with a warning, not failed.
func checkBackwardDependencies(ds *catalog.Dataset, g *graph.DecisionGraph, r *Report) {
	tapeIdx := ds.TapeIndex()

	for _, consumerID := range ds.ConsumerIDs() {
		c := ds.Consumers[consumerID]
		consumerPos, ok := tapeIdx[c.Tape]
		if !ok {
			r.Warnings = append(r.Warnings, Finding{
				Code:     CodeUnknownTape,
				Severity: SeverityWarning,
				Subject:  consumerID,
				Message: fmt.Sprintf("consumer %q names tape %q outside the authored order; ordering check skipped",
					consumerID, c.Tape),
			})
			continue
		}

		for _, effectID := range c.Checks {
			for _, producerID := range g.ProducersOf(effectID) {
				producerTape := ds.Decisions[producerID].Tape
				producerPos, ok := tapeIdx[producerTape]
				if !ok {
					continue
				}
				if producerPos > consumerPos {
					r.Errors = append(r.Errors, Finding{
						Code:     CodeBackwardDependency,
						Severity: SeverityError,
						Subject:  effectID,
						Message: fmt.Sprintf(
							"consumer %s in tape %s checks effect %q produced by decision %s in later tape %s",
							consumerID, c.Tape, effectID, producerID, producerTape),
					})
				}
			}
		}
	}
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}

func sortFindings(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Code != findings[j].Code {
			return findings[i].Code < findings[j].Code
		}
		if findings[i].Subject != findings[j].Subject {
			return findings[i].Subject < findings[j].Subject
		}
		return findings[i].Message < findings[j].Message
	})
}
