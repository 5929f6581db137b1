// Package store provides durable save-slot persistence for player state
// snapshots. The engine treats the store as best-effort: a write failure is
// observed and reported, never raised into the play session.
package store

// SnapshotRecord is one persisted player state snapshot, keyed by save slot.
// Data is the encoded snapshot blob; Version is the snapshot format version
// written alongside it so a future format change can migrate on read.
type SnapshotRecord struct {
	Slot      string `json:"slot"`
	Version   int    `json:"version"`
	Data      []byte `json:"data"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Storer defines the interface for snapshot persistence.
// This allows swapping between MemStore (testing, no-op durability) and
// SQLiteStore (production).
type Storer interface {
	// PutSnapshot writes or replaces the snapshot for a slot.
	PutSnapshot(slot string, version int, data []byte) error

	// GetSnapshot returns the snapshot for a slot, or nil when the slot has
	// never been written. Absence is not an error.
	GetSnapshot(slot string) (*SnapshotRecord, error)

	// DeleteSnapshot erases the durable record for a slot.
	DeleteSnapshot(slot string) error

	// ListSlots returns all slots with a stored snapshot, sorted.
	ListSlots() ([]string, error)

	// Close releases store resources.
	Close() error
}
