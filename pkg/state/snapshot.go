package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/zstd"
)

// SnapshotVersion is the current snapshot format version, written alongside
// the blob so a future format change can migrate on read.
const SnapshotVersion = 1

// Snapshot is the flat, canonical serialization of a PlayerState. Flags and
// arcs are sorted so equal states export byte-identical documents.
type Snapshot struct {
	Version  int            `json:"version"`
	Stats    map[string]int `json:"stats"`
	Flags    []string       `json:"flags"`
	Memories []Memory       `json:"memories"`
	Arcs     []string       `json:"arcs"`
	History  []ChoiceRecord `json:"history"`
}

// Export returns the canonical snapshot of the current state.
func (e *Engine) Export() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.exportLocked()
}

func (e *Engine) exportLocked() Snapshot {
	snap := Snapshot{
		Version:  SnapshotVersion,
		Stats:    make(map[string]int, len(e.state.Stats)),
		Flags:    make([]string, 0, len(e.state.ActiveFlags)),
		Memories: make([]Memory, len(e.state.Memories)),
		Arcs:     make([]string, 0, len(e.state.ArcFlags)),
		History:  make([]ChoiceRecord, len(e.state.History)),
	}
	for k, v := range e.state.Stats {
		snap.Stats[k] = v
	}
	for id := range e.state.ActiveFlags {
		snap.Flags = append(snap.Flags, id)
	}
	for id := range e.state.ArcFlags {
		snap.Arcs = append(snap.Arcs, id)
	}
	sort.Strings(snap.Flags)
	sort.Strings(snap.Arcs)
	copy(snap.Memories, e.state.Memories)
	copy(snap.History, e.state.History)
	return snap
}

// Import replaces the current state wholesale with the snapshot's contents.
// Missing fields keep their creation defaults, so a partial document merges
// rather than being rejected.
func (e *Engine) Import(snap Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.importLocked(snap)
}

func (e *Engine) importLocked(snap Snapshot) {
	fresh := newPlayerState()
	for k, v := range snap.Stats {
		fresh.Stats[k] = clampStat(v)
	}
	for _, id := range snap.Flags {
		fresh.ActiveFlags[id] = true
	}
	for _, id := range snap.Arcs {
		fresh.ArcFlags[id] = true
	}
	fresh.Memories = append(fresh.Memories, snap.Memories...)
	fresh.History = append(fresh.History, snap.History...)
	e.state = fresh
}

// EncodeSnapshot serializes a snapshot to the durable blob format:
// JSON compressed with zstd.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("state: marshal snapshot: %w", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("state: zstd writer: %w", err)
	}
	if _, err := enc.Write(payload); err != nil {
		enc.Close()
		return nil, fmt.Errorf("state: compress snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("state: compress snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot parses a durable blob back into a snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot

	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return snap, fmt.Errorf("state: zstd reader: %w", err)
	}
	defer dec.Close()

	payload, err := io.ReadAll(dec)
	if err != nil {
		return snap, fmt.Errorf("state: decompress snapshot: %w", err)
	}
	if err := json.Unmarshal(payload, &snap); err != nil {
		return snap, fmt.Errorf("state: unmarshal snapshot: %w", err)
	}
	return snap, nil
}
