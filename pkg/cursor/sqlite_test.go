package cursor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), t.TempDir()+"/cursors.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_CommitAndGet(t *testing.T) {
	ctx := context.Background()
	s := setupSQLiteStore(t)

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

func TestSQLiteStore_CommitMonotonic(t *testing.T) {
	ctx := context.Background()
	s := setupSQLiteStore(t)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Commit(ctx, "src", "item-2", ts))
	require.NoError(t, s.Commit(ctx, "src", "item-1", ts.Add(-time.Hour)))

	cur, err := s.Get(ctx, "src")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "item-2", cur.LastSeenID, "cursor never regresses")
	assert.True(t, cur.LastSeenAt.Equal(ts))
}

func TestSQLiteStore_Evict(t *testing.T) {
	ctx := context.Background()
	s := setupSQLiteStore(t)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Commit(ctx, "src", "item-1", ts))
	_, err := s.RecordFailure(ctx, "src")
	require.NoError(t, err)

	require.NoError(t, s.Evict(ctx, "src"))

	cur, err := s.Get(ctx, "src")
	require.NoError(t, err)
	assert.Nil(t, cur)

	count, err := s.Failures(ctx, "src")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteStore_Failures(t *testing.T) {
	ctx := context.Background()
	s := setupSQLiteStore(t)

	for i := 1; i <= 3; i++ {
		count, err := s.RecordFailure(ctx, "src")
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	// a failure-only row carries no cursor
	cur, err := s.Get(ctx, "src")
	require.NoError(t, err)
	assert.Nil(t, cur)

	require.NoError(t, s.ResetFailures(ctx, "src"))
	count, err := s.Failures(ctx, "src")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteStore_FailureCountSurvivesCommit(t *testing.T) {
	ctx := context.Background()
	s := setupSQLiteStore(t)

	_, err := s.RecordFailure(ctx, "src")
	require.NoError(t, err)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Commit(ctx, "src", "item-1", ts))

	// cursor commits don't touch the failure counter; the quarantine
	// manager resets it explicitly on success
	count, err := s.Failures(ctx, "src")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// the fully populated row reads back cleanly
	cur, err := s.Get(ctx, "src")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "item-1", cur.LastSeenID)
}

func TestSQLiteStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	s := setupSQLiteStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := s.Commit(ctx, "src", "item", base.Add(time.Duration(n)*time.Minute))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	cur, err := s.Get(ctx, "src")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.True(t, cur.LastSeenAt.Equal(base.Add(9*time.Minute)), "latest commit wins regardless of arrival order")
}
