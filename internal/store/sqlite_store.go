// SQLite-backed persistence using ncruces/go-sqlite3/driver, which provides
// a database/sql interface over an embedded wasm build of SQLite.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteStore is the SQLite-backed snapshot store.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// schema defines the snapshot table. One row per save slot; the blob is the
// encoded snapshot and version records its format.
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    slot TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    data BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) PutSnapshot(slot string, version int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO snapshots (slot, version, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			version = excluded.version,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, slot, version, data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: put snapshot %q: %w", slot, err)
	}
	return nil
}

func (s *SQLiteStore) GetSnapshot(slot string) (*SnapshotRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &SnapshotRecord{Slot: slot}
	err := s.db.QueryRow(`
		SELECT version, data, updated_at FROM snapshots WHERE slot = ?
	`, slot).Scan(&rec.Version, &rec.Data, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get snapshot %q: %w", slot, err)
	}
	return rec, nil
}

func (s *SQLiteStore) DeleteSnapshot(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("store: delete snapshot %q: %w", slot, err)
	}
	return nil
}

func (s *SQLiteStore) ListSlots() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT slot FROM snapshots ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("store: list slots: %w", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("store: scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// Compile-time interface check
var _ Storer = (*SQLiteStore)(nil)
