// Package recall provides keyword lookup over a player's collected memories.
// It is a deterministic read-only layer on top of the engine's query surface;
// the callback and flavor-text systems select memories through it without
// ever touching engine state.
package recall

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/kittclouds/tapedeck/pkg/state"
)

// Matcher scans memory descriptions for a fixed set of keywords with a
// single Aho-Corasick pass per description.
type Matcher struct {
	ac       ahocorasick.AhoCorasick
	patterns []string
}

// NewMatcher compiles the keyword set. Patterns are matched ASCII
// case-insensitively, leftmost-longest; empty and duplicate patterns are
// dropped.
func NewMatcher(keywords []string) *Matcher {
	seen := make(map[string]bool, len(keywords))
	patterns := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		key := strings.ToLower(strings.TrimSpace(kw))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		patterns = append(patterns, key)
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &Matcher{
		ac:       builder.Build(patterns),
		patterns: patterns,
	}
}

// PatternCount returns the number of compiled keywords.
func (m *Matcher) PatternCount() int {
	return len(m.patterns)
}

// MemoryMatch pairs a memory with the keywords found in its description.
type MemoryMatch struct {
	Memory   state.Memory
	Keywords []string
}

// FindMemories returns the memories whose description mentions at least one
// keyword, preserving application order. Keywords within a match are listed
// in compile order, deduplicated.
func (m *Matcher) FindMemories(memories []state.Memory) []MemoryMatch {
	var result []MemoryMatch
	for _, mem := range memories {
		keywords := m.scan(mem.Description)
		if len(keywords) == 0 {
			continue
		}
		result = append(result, MemoryMatch{Memory: mem, Keywords: keywords})
	}
	return result
}

func (m *Matcher) scan(text string) []string {
	matches := m.ac.FindAll(strings.ToLower(text))
	if len(matches) == 0 {
		return nil
	}

	hit := make(map[int]bool, len(matches))
	for _, match := range matches {
		hit[match.Pattern()] = true
	}
	keywords := make([]string, 0, len(hit))
	for idx, pattern := range m.patterns {
		if hit[idx] {
			keywords = append(keywords, pattern)
		}
	}
	return keywords
}
