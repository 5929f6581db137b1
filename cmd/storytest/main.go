// Command storytest is a smoke check for the full engine stack: it builds a
// small in-code dataset, validates it, plays a scripted set of choices
// against both store implementations, and exercises snapshot round-trips and
// memory recall.
package main

import (
	"fmt"
	"log"

	"github.com/kittclouds/tapedeck/internal/store"
	"github.com/kittclouds/tapedeck/pkg/catalog"
	"github.com/kittclouds/tapedeck/pkg/graph"
	"github.com/kittclouds/tapedeck/pkg/recall"
	"github.com/kittclouds/tapedeck/pkg/state"
	"github.com/kittclouds/tapedeck/pkg/validator"
)

func main() {
	ds := smokeDataset()
	g := graph.Build(ds)

	fmt.Println("Validating dataset...")
	report := validator.Check(ds, g)
	if report.Verdict() == validator.Fail {
		for _, f := range report.Errors {
			log.Printf("  %s %s: %s", f.Code, f.Subject, f.Message)
		}
		log.Fatal("smoke dataset failed validation")
	}
	fmt.Println("  ✓ dataset valid")

	fmt.Println("\nTesting MemStore...")
	playThrough(store.NewMemStore())

	fmt.Println("\nTesting SQLiteStore...")
	st, err := store.NewSQLiteStore()
	if err != nil {
		log.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer st.Close()
	playThrough(st)

	fmt.Println("\n✅ All smoke checks passed!")
}

func playThrough(st store.Storer) {
	ds := smokeDataset()
	g := graph.Build(ds)
	engine := state.New(ds, g, st, "smoke-slot")

	if _, err := engine.ApplyChoice("d_door", "open"); err != nil {
		log.Fatalf("ApplyChoice failed: %v", err)
	}
	if _, err := engine.ApplyChoice("d_confess", "truth"); err != nil {
		log.Fatalf("ApplyChoice failed: %v", err)
	}
	fmt.Println("  ✓ ApplyChoice works")

	if !engine.HasFlag("flag_door_open") {
		log.Fatal("flag_door_open should be set")
	}
	if got := engine.GetStat("trust"); got != 15 {
		log.Fatalf("trust = %d, want 15", got)
	}
	if len(engine.GetHistory()) != 2 {
		log.Fatalf("history length = %d, want 2", len(engine.GetHistory()))
	}
	fmt.Println("  ✓ queries work")

	restored := state.New(ds, g, st, "smoke-slot")
	if !restored.Restored() {
		log.Fatal("engine should restore from persisted snapshot")
	}
	if got := restored.GetStat("trust"); got != 15 {
		log.Fatalf("restored trust = %d, want 15", got)
	}
	fmt.Println("  ✓ persistence round-trip works")

	matcher := recall.NewMatcher([]string{"door"})
	matches := matcher.FindMemories(restored.GetMemories())
	if len(matches) != 1 {
		log.Fatalf("recall matches = %d, want 1", len(matches))
	}
	fmt.Println("  ✓ memory recall works")

	ending := restored.DetermineEnding([]state.EndingDef{
		{ID: "honest", Requires: []string{"arc_honest"}},
		{ID: "default"},
	})
	if ending.ID != "honest" {
		log.Fatalf("ending = %s, want honest", ending.ID)
	}
	fmt.Println("  ✓ ending determination works")

	if err := restored.Reset(); err != nil {
		log.Fatalf("Reset failed: %v", err)
	}
	if len(restored.GetHistory()) != 0 {
		log.Fatal("reset should clear history")
	}
	fmt.Println("  ✓ reset works")
}

func smokeDataset() *catalog.Dataset {
	return &catalog.Dataset{
		Tapes: []string{"tape1", "tape2"},
		Effects: map[string]catalog.Effect{
			"flag_door_open": {ID: "flag_door_open", Type: catalog.EffectFlag},
			"mem_door":       {ID: "mem_door", Type: catalog.EffectMemory, Description: "You left the door open."},
			"stat_trust_+5":  {ID: "stat_trust_+5", Type: catalog.EffectStat, Stat: "trust", Delta: 5},
			"stat_trust_+10": {ID: "stat_trust_+10", Type: catalog.EffectStat, Stat: "trust", Delta: 10},
			"arc_honest":     {ID: "arc_honest", Type: catalog.EffectArc},
		},
		Decisions: map[string]catalog.Decision{
			"d_door": {
				ID:   "d_door",
				Tape: "tape1",
				Options: []catalog.Option{
					{ID: "open", Effects: []string{"flag_door_open", "mem_door", "stat_trust_+5"}},
					{ID: "closed", Effects: []string{"stat_trust_+10"}},
				},
			},
			"d_confess": {
				ID:   "d_confess",
				Tape: "tape2",
				Options: []catalog.Option{
					{ID: "truth", Effects: []string{"arc_honest", "stat_trust_+10"}},
					{ID: "lie", Effects: []string{"stat_trust_+5"}},
				},
			},
		},
		Consumers: map[string]catalog.Consumer{
			"c_door": {ID: "c_door", Tape: "tape2", Checks: []string{"flag_door_open", "mem_door"}},
		},
	}
}
