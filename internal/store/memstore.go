package store

import (
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory implementation of Storer. It backs tests and any
// session that runs without durable storage.
type MemStore struct {
	mu        sync.RWMutex
	snapshots map[string]*SnapshotRecord
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		snapshots: make(map[string]*SnapshotRecord),
	}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

func (s *MemStore) PutSnapshot(slot string, version int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deep copy so callers cannot mutate stored bytes.
	blob := make([]byte, len(data))
	copy(blob, data)

	s.snapshots[slot] = &SnapshotRecord{
		Slot:      slot,
		Version:   version,
		Data:      blob,
		UpdatedAt: time.Now().UnixMilli(),
	}
	return nil
}

func (s *MemStore) GetSnapshot(slot string) (*SnapshotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.snapshots[slot]
	if !ok {
		return nil, nil
	}
	out := *rec
	out.Data = make([]byte, len(rec.Data))
	copy(out.Data, rec.Data)
	return &out, nil
}

func (s *MemStore) DeleteSnapshot(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, slot)
	return nil
}

func (s *MemStore) ListSlots() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]string, 0, len(s.snapshots))
	for slot := range s.snapshots {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots, nil
}

// Compile-time interface check
var _ Storer = (*MemStore)(nil)
