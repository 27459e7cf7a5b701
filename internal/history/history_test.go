package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platecheck/internal/result"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Record("run-1", result.Outcome{
		Plate: "ABC123", Status: result.StatusAvailable,
		Message: "Congratulations!", Timestamp: now, Attempts: 1,
	}))
	require.NoError(t, store.Record("run-1", result.Outcome{
		Plate: "DEF456", Status: result.StatusUnavailable,
		Message: "Already taken", Timestamp: now.Add(time.Second), Attempts: 2,
	}))

	entries, err := store.Recent("", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "DEF456", entries[0].Plate)
	assert.Equal(t, result.StatusUnavailable, entries[0].Status)
	assert.Equal(t, 2, entries[0].Attempts)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.Equal(t, "ABC123", entries[1].Plate)
}

func TestRecent_PlateFilter(t *testing.T) {
	store := openTestStore(t)

	for _, p := range []string{"AAA111", "BBB222", "AAA111"} {
		require.NoError(t, store.Record("run-x", result.Outcome{
			Plate: p, Status: result.StatusUnknown, Timestamp: time.Now(),
		}))
	}

	entries, err := store.Recent("AAA111", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "AAA111", e.Plate)
	}
}

func TestRecent_Limit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record("run-y", result.Outcome{
			Plate: "XYZ789", Status: result.StatusError, Timestamp: time.Now(),
		}))
	}

	entries, err := store.Recent("", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
