package drafts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "drafts-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := NewSQLiteStore(filepath.Join(tmpDir, "test.db"), 5)
	require.NoError(t, err)
	return store
}

func testSnapshot(curationID string) *Snapshot {
	return &Snapshot{
		CurationID:   curationID,
		Curator:      "curator@example.org",
		EvidenceData: json.RawMessage(`{"genetic_evidence":{"segregation":[{"label":"family A","points":2}]}}`),
	}
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drafts-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, 10)

	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
}

func TestSQLiteStore_Save(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()
	snap := testSnapshot("curation-1")

	err := store.Save(ctx, snap)

	require.NoError(t, err)
	assert.NotZero(t, snap.ID, "ID should be assigned")
	assert.False(t, snap.SavedAt.IsZero(), "SavedAt should be set")
}

func TestSQLiteStore_SaveRequiresCurationID(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	err := store.Save(context.Background(), &Snapshot{})
	assert.Error(t, err)
}

func TestSQLiteStore_Latest(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	first := testSnapshot("curation-1")
	first.SavedAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Save(ctx, first))

	second := testSnapshot("curation-1")
	second.Note = "after adding segregation"
	second.SavedAt = time.Now()
	require.NoError(t, store.Save(ctx, second))

	latest, err := store.Latest(ctx, "curation-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "after adding segregation", latest.Note)

	// Unknown curation returns nil without error
	missing, err := store.Latest(ctx, "curation-unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStore_RetentionPruning(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Store keeps 5 per draft; save 8
	for i := 0; i < 8; i++ {
		snap := testSnapshot("curation-1")
		snap.Note = fmt.Sprintf("save %d", i)
		snap.SavedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, store.Save(ctx, snap))
	}

	count, err := store.Count(ctx, "curation-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	// The newest snapshot survives pruning
	latest, err := store.Latest(ctx, "curation-1")
	require.NoError(t, err)
	assert.Equal(t, "save 7", latest.Note)

	// Other curations are untouched
	other := testSnapshot("curation-2")
	require.NoError(t, store.Save(ctx, other))
	otherCount, err := store.Count(ctx, "curation-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherCount)
}

func TestSQLiteStore_List(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		snap := testSnapshot("curation-1")
		snap.Note = fmt.Sprintf("save %d", i)
		snap.SavedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, store.Save(ctx, snap))
	}

	snapshots, err := store.List(ctx, "curation-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, "save 2", snapshots[0].Note, "newest first")

	page, err := store.List(ctx, "curation-1", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "save 1", page[0].Note)
}

func TestSQLiteStore_Purge(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot("curation-1")))
	require.NoError(t, store.Save(ctx, testSnapshot("curation-2")))

	require.NoError(t, store.Purge(ctx, "curation-1"))

	count, err := store.Count(ctx, "curation-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	otherCount, err := store.Count(ctx, "curation-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherCount)
}

func TestSQLiteStore_ExportImport(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	snap := testSnapshot("curation-1")
	snap.SavedAt = time.Now()
	require.NoError(t, store.Save(ctx, snap))

	var buf bytes.Buffer
	require.NoError(t, store.ExportJSON(ctx, &buf))

	var export SnapshotExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &export))
	assert.Equal(t, "1.0", export.Version)
	assert.Equal(t, 1, export.Count)

	// Import into a fresh store
	target := createTestStore(t)
	defer target.Close()

	imported, skipped, err := target.ImportJSON(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Zero(t, skipped)

	// Importing the same export again skips the stale snapshot
	imported, skipped, err = target.ImportJSON(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Zero(t, imported)
	assert.Equal(t, 1, skipped)
}

func TestSQLiteStore_EvidenceDataRoundTrip(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	snap := testSnapshot("curation-1")
	require.NoError(t, store.Save(ctx, snap))

	latest, err := store.Latest(ctx, "curation-1")
	require.NoError(t, err)
	require.NotNil(t, latest)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(latest.EvidenceData, &doc))
	assert.Contains(t, doc, "genetic_evidence")
}
