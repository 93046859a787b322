package cursor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_CommitAndGet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cursors.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	cur, err := s.Get(ctx, "https://example.com/feed")
	require.NoError(t, err)
	assert.Nil(t, cur, "unknown source has no cursor")

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Commit(ctx, "https://example.com/feed", "https://example.com/post-1", ts))

	cur, err = s.Get(ctx, "https://example.com/feed")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "https://example.com/post-1", cur.LastSeenID)
	assert.True(t, cur.LastSeenAt.Equal(ts))
}

func TestFileStore_CommitMonotonic(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cursors.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Commit(ctx, "src", "item-2", ts))
	require.NoError(t, s.Commit(ctx, "src", "item-1", ts.Add(-time.Hour)), "older commit is accepted but ignored")

	cur, err := s.Get(ctx, "src")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "item-2", cur.LastSeenID, "cursor never regresses")
	assert.True(t, cur.LastSeenAt.Equal(ts))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cursors.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Commit(ctx, "src", "item-1", ts))
	_, err = s.RecordFailure(ctx, "other")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	cur, err := reopened.Get(ctx, "src")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "item-1", cur.LastSeenID)

	count, err := reopened.Failures(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFileStore_Evict(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cursors.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Commit(ctx, "src", "item-1", ts))
	_, err = s.RecordFailure(ctx, "src")
	require.NoError(t, err)

	require.NoError(t, s.Evict(ctx, "src"))

	cur, err := s.Get(ctx, "src")
	require.NoError(t, err)
	assert.Nil(t, cur, "cursor gone after eviction")

	count, err := s.Failures(ctx, "src")
	require.NoError(t, err)
	assert.Zero(t, count, "failure count gone with the cursor")
}

func TestFileStore_Failures(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cursors.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		count, err := s.RecordFailure(ctx, "src")
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	require.NoError(t, s.ResetFailures(ctx, "src"))
	count, err := s.Failures(ctx, "src")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileStore_HandEditedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cursors.json")

	edited := map[string]fileRecord{
		"https://example.com/feed": {LastSeenID: "moved-by-hand", LastSeenAt: "2025-01-15T10:00:00Z"},
	}
	data, err := json.MarshalIndent(edited, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	cur, err := s.Get(ctx, "https://example.com/feed")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "moved-by-hand", cur.LastSeenID)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), cur.LastSeenAt)
}

func TestFileStore_BadTimestampTreatedAsColdStart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cursors.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"src":{"last_seen_id":"x","last_seen_at":"yesterday"}}`), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	cur, err := s.Get(ctx, "src")
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cursors.json")

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	cur, err := s.Get(ctx, "anything")
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestFileStore_AtomicWrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "cursors.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Commit(ctx, "src", "item-1", ts))

	// the file on disk is always complete valid JSON
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]fileRecord
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "item-1", onDisk["src"].LastSeenID)

	// no temp leftovers after the rename
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cursors.json", entries[0].Name())
}
