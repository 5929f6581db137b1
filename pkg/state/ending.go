package state

// DefaultEndingID is returned when no authored ending matches.
const DefaultEndingID = "default"

// EndingDef is one ending candidate. Requires ids may be flags or arc
// markers; MinTrust and MinGuard gate on the corresponding stats when set.
type EndingDef struct {
	ID       string   `json:"id"`
	Requires []string `json:"requires,omitempty"`
	MinTrust *int     `json:"min_trust,omitempty"`
	MinGuard *int     `json:"min_guard,omitempty"`
}

// EndingResult names the ending that fired. Matched is false only for the
// canonical default fallback.
type EndingResult struct {
	ID      string `json:"id"`
	Matched bool   `json:"matched"`
}

// DetermineEnding evaluates candidates in authored order and returns the
// first match. This is a priority list, not a scored ranking: input order is
// the tie-break. A candidate matches iff every required id is active as a
// flag or arc marker and the trust/guard stats clear their minimums.
func (e *Engine) DetermineEnding(defs []EndingDef) EndingResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, def := range defs {
		if e.endingMatchesLocked(def) {
			return EndingResult{ID: def.ID, Matched: true}
		}
	}
	return EndingResult{ID: DefaultEndingID}
}

func (e *Engine) endingMatchesLocked(def EndingDef) bool {
	for _, id := range def.Requires {
		if !e.state.ActiveFlags[id] && !e.state.ArcFlags[id] {
			return false
		}
	}
	if def.MinTrust != nil && e.state.Stats["trust"] < *def.MinTrust {
		return false
	}
	if def.MinGuard != nil && e.state.Stats["guard"] < *def.MinGuard {
		return false
	}
	return true
}
