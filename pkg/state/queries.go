package state

// Read-only query surface. Downstream narrative layers (tone selection,
// callbacks, milestone text) consume these and never mutate engine state.

// GetStat returns the current value of a stat, 0 for unknown names.
func (e *Engine) GetStat(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Stats[name]
}

// HasFlag reports whether the flag effect is active.
func (e *Engine) HasFlag(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.ActiveFlags[id]
}

// HasAnyFlag reports whether at least one of the given flags is active.
func (e *Engine) HasAnyFlag(ids ...string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, id := range ids {
		if e.state.ActiveFlags[id] {
			return true
		}
	}
	return false
}

// HasAllFlags reports whether every given flag is active.
func (e *Engine) HasAllFlags(ids ...string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, id := range ids {
		if !e.state.ActiveFlags[id] {
			return false
		}
	}
	return true
}

// HasArc reports whether the arc marker is unlocked.
func (e *Engine) HasArc(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.ArcFlags[id]
}

// GetMemories returns the collected memories in application order.
// The slice is a copy; mutating it does not touch engine state.
func (e *Engine) GetMemories() []Memory {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Memory, len(e.state.Memories))
	copy(out, e.state.Memories)
	return out
}

// GetHistory returns the choice history in application order, as a copy.
func (e *Engine) GetHistory() []ChoiceRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]ChoiceRecord, len(e.state.History))
	copy(out, e.state.History)
	return out
}

// GetLastChoice returns the most recent history entry for a decision, or nil
// when the decision was never taken.
func (e *Engine) GetLastChoice(decisionID string) *ChoiceRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for i := len(e.state.History) - 1; i >= 0; i-- {
		if e.state.History[i].DecisionID == decisionID {
			rec := e.state.History[i]
			return &rec
		}
	}
	return nil
}

// WasChoiceMade reports whether any history entry matches both ids, not just
// the latest one for the decision.
func (e *Engine) WasChoiceMade(decisionID, optionID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, rec := range e.state.History {
		if rec.DecisionID == decisionID && rec.OptionID == optionID {
			return true
		}
	}
	return false
}

// GetState returns a deep copy of the full player state.
func (e *Engine) GetState() *PlayerState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.clone()
}
