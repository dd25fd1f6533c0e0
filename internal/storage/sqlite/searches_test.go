package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, maxRecent int) *SearchStorage {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)

	store, err := NewSearchStorage(filepath.Join(t.TempDir(), "test.db"), maxRecent, log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestRecordSearchAndRecentSearches(t *testing.T) {
	store := newTestStorage(t, 10)

	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordSearch("KJFK", "VFR", base))
	require.NoError(t, store.RecordSearch("KSEA", "IFR", base.Add(1*time.Minute)))
	require.NoError(t, store.RecordSearch("CYYZ", "MVFR", base.Add(2*time.Minute)))

	searches, err := store.RecentSearches()
	require.NoError(t, err)
	require.Len(t, searches, 3)

	// Newest first
	assert.Equal(t, "CYYZ", searches[0].StationID)
	assert.Equal(t, "KSEA", searches[1].StationID)
	assert.Equal(t, "KJFK", searches[2].StationID)
	assert.Equal(t, "MVFR", searches[0].FlightCategory)
	assert.Equal(t, base.Add(2*time.Minute), searches[0].SearchedAt)
}

func TestRecordSearchUpsertsStation(t *testing.T) {
	store := newTestStorage(t, 10)

	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordSearch("KJFK", "VFR", base))
	require.NoError(t, store.RecordSearch("KSEA", "IFR", base.Add(1*time.Minute)))
	require.NoError(t, store.RecordSearch("KJFK", "MVFR", base.Add(2*time.Minute)))

	searches, err := store.RecentSearches()
	require.NoError(t, err)
	require.Len(t, searches, 2)

	// KJFK moved to the front with its new category
	assert.Equal(t, "KJFK", searches[0].StationID)
	assert.Equal(t, "MVFR", searches[0].FlightCategory)
	assert.Equal(t, "KSEA", searches[1].StationID)
}

func TestRecordSearchPrunesHistory(t *testing.T) {
	store := newTestStorage(t, 3)

	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	stations := []string{"KJFK", "KSEA", "CYYZ", "EGLL", "KDEN"}
	for i, id := range stations {
		require.NoError(t, store.RecordSearch(id, "VFR", base.Add(time.Duration(i)*time.Minute)))
	}

	searches, err := store.RecentSearches()
	require.NoError(t, err)
	require.Len(t, searches, 3)

	assert.Equal(t, "KDEN", searches[0].StationID)
	assert.Equal(t, "EGLL", searches[1].StationID)
	assert.Equal(t, "CYYZ", searches[2].StationID)
}

func TestRecentSearchesEmpty(t *testing.T) {
	store := newTestStorage(t, 10)

	searches, err := store.RecentSearches()
	require.NoError(t, err)
	assert.Empty(t, searches)
}
