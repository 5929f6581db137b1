package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Store Factory for Testing Both Implementations
// =============================================================================

// storeFactory creates a store for testing.
// We test both MemStore and SQLiteStore with the same test suite.
type storeFactory func() (Storer, error)

func memStoreFactory() (Storer, error) {
	return NewMemStore(), nil
}

func sqliteStoreFactory() (Storer, error) {
	return NewSQLiteStore()
}

// runTestsForAllStores runs a test function against both store implementations.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store Storer)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			store, err := factory()
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store)
		})
	}
}

// =============================================================================
// Snapshot CRUD Tests
// =============================================================================

func TestPutAndGetSnapshot(t *testing.T) {
	runTestsForAllStores(t, "PutAndGet", func(t *testing.T, store Storer) {
		require.NoError(t, store.PutSnapshot("slot-1", 1, []byte(`{"stats":{}}`)))

		rec, err := store.GetSnapshot("slot-1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "slot-1", rec.Slot)
		assert.Equal(t, 1, rec.Version)
		assert.Equal(t, []byte(`{"stats":{}}`), rec.Data)
		assert.NotZero(t, rec.UpdatedAt)
	})
}

func TestGetMissingSnapshotReturnsNil(t *testing.T) {
	runTestsForAllStores(t, "GetMissing", func(t *testing.T, store Storer) {
		rec, err := store.GetSnapshot("never-written")
		require.NoError(t, err)
		assert.Nil(t, rec, "missing slot should be nil, not an error")
	})
}

func TestPutSnapshotReplaces(t *testing.T) {
	runTestsForAllStores(t, "Replace", func(t *testing.T, store Storer) {
		require.NoError(t, store.PutSnapshot("slot-1", 1, []byte("first")))
		require.NoError(t, store.PutSnapshot("slot-1", 2, []byte("second")))

		rec, err := store.GetSnapshot("slot-1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, 2, rec.Version)
		assert.Equal(t, []byte("second"), rec.Data)

		slots, err := store.ListSlots()
		require.NoError(t, err)
		assert.Equal(t, []string{"slot-1"}, slots)
	})
}

func TestDeleteSnapshot(t *testing.T) {
	runTestsForAllStores(t, "Delete", func(t *testing.T, store Storer) {
		require.NoError(t, store.PutSnapshot("slot-1", 1, []byte("data")))
		require.NoError(t, store.DeleteSnapshot("slot-1"))

		rec, err := store.GetSnapshot("slot-1")
		require.NoError(t, err)
		assert.Nil(t, rec)

		// Deleting an absent slot is not an error.
		require.NoError(t, store.DeleteSnapshot("slot-1"))
	})
}

func TestListSlotsSorted(t *testing.T) {
	runTestsForAllStores(t, "ListSorted", func(t *testing.T, store Storer) {
		require.NoError(t, store.PutSnapshot("save-b", 1, []byte("b")))
		require.NoError(t, store.PutSnapshot("save-a", 1, []byte("a")))
		require.NoError(t, store.PutSnapshot("save-c", 1, []byte("c")))

		slots, err := store.ListSlots()
		require.NoError(t, err)
		assert.Equal(t, []string{"save-a", "save-b", "save-c"}, slots)
	})
}

func TestStoredDataIsCopied(t *testing.T) {
	runTestsForAllStores(t, "DataCopied", func(t *testing.T, store Storer) {
		data := []byte("original")
		require.NoError(t, store.PutSnapshot("slot-1", 1, data))
		data[0] = 'X'

		rec, err := store.GetSnapshot("slot-1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, []byte("original"), rec.Data, "caller mutation must not reach stored bytes")
	})
}
