package novelty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedrelay/feedrelay/pkg/domain"
)

func TestDetector_Detect(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	items := []domain.Item{
		{Link: "https://example.com/c", Title: "C", Published: base.Add(2 * time.Hour)},
		{Link: "https://example.com/a", Title: "A", Published: base},
		{Link: "https://example.com/b", Title: "B", Published: base.Add(time.Hour)},
	}

	t.Run("cursor splits old from new", func(t *testing.T) {
		d := NewDetector(PolicyWindow, 24*time.Hour)
		cur := &domain.Cursor{LastSeenID: "https://example.com/a", LastSeenAt: base}

		fresh := d.Detect(items, cur)
		require.Len(t, fresh, 2)
		assert.Equal(t, "B", fresh[0].Title, "oldest new item first")
		assert.Equal(t, "C", fresh[1].Title)
	})

	t.Run("nothing new when cursor at the newest item", func(t *testing.T) {
		d := NewDetector(PolicyWindow, 24*time.Hour)
		cur := &domain.Cursor{LastSeenID: "https://example.com/c", LastSeenAt: base.Add(2 * time.Hour)}

		fresh := d.Detect(items, cur)
		assert.Empty(t, fresh)
	})

	t.Run("detection is idempotent", func(t *testing.T) {
		d := NewDetector(PolicyWindow, 24*time.Hour)
		cur := &domain.Cursor{LastSeenID: "https://example.com/a", LastSeenAt: base}

		first := d.Detect(items, cur)
		second := d.Detect(items, cur)
		assert.Equal(t, first, second)
	})

	t.Run("equal timestamp different identity is new", func(t *testing.T) {
		d := NewDetector(PolicyWindow, 24*time.Hour)
		cur := &domain.Cursor{LastSeenID: "https://example.com/a", LastSeenAt: base}

		tied := []domain.Item{
			{Link: "https://example.com/a", Title: "A", Published: base},
			{Link: "https://example.com/a2", Title: "A2", Published: base},
		}
		fresh := d.Detect(tied, cur)
		require.Len(t, fresh, 1)
		assert.Equal(t, "A2", fresh[0].Title)
	})

	t.Run("equal timestamp same identity is not new", func(t *testing.T) {
		d := NewDetector(PolicyWindow, 24*time.Hour)
		cur := &domain.Cursor{LastSeenID: "https://example.com/a", LastSeenAt: base}

		fresh := d.Detect([]domain.Item{{Link: "https://example.com/a", Title: "A", Published: base}}, cur)
		assert.Empty(t, fresh)
	})

	t.Run("ties keep fetched order", func(t *testing.T) {
		d := NewDetector(PolicyWindow, 24*time.Hour)
		cur := &domain.Cursor{LastSeenAt: base.Add(-time.Hour)}

		tied := []domain.Item{
			{Link: "https://example.com/x", Title: "X", Published: base},
			{Link: "https://example.com/y", Title: "Y", Published: base},
			{Link: "https://example.com/z", Title: "Z", Published: base},
		}
		fresh := d.Detect(tied, cur)
		require.Len(t, fresh, 3)
		assert.Equal(t, "X", fresh[0].Title)
		assert.Equal(t, "Y", fresh[1].Title)
		assert.Equal(t, "Z", fresh[2].Title)
	})

	t.Run("empty input", func(t *testing.T) {
		d := NewDetector(PolicyWindow, 24*time.Hour)
		assert.Empty(t, d.Detect(nil, &domain.Cursor{LastSeenAt: base}))
		assert.Empty(t, d.Detect(nil, nil))
	})
}

func TestDetector_ColdStartWindow(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	d := NewDetector(PolicyWindow, 24*time.Hour)
	d.now = func() time.Time { return now }

	items := []domain.Item{
		{Link: "https://example.com/old", Title: "old", Published: now.Add(-48 * time.Hour)},
		{Link: "https://example.com/recent", Title: "recent", Published: now.Add(-2 * time.Hour)},
		{Link: "https://example.com/newest", Title: "newest", Published: now.Add(-time.Minute)},
	}

	fresh := d.Detect(items, nil)
	require.Len(t, fresh, 2, "only items inside the 24h window")
	assert.Equal(t, "recent", fresh[0].Title)
	assert.Equal(t, "newest", fresh[1].Title)

	t.Run("all items outside the window", func(t *testing.T) {
		stale := []domain.Item{
			{Link: "https://example.com/old", Published: now.Add(-72 * time.Hour)},
		}
		assert.Empty(t, d.Detect(stale, nil))
	})
}

func TestDetector_ColdStartLatest(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	d := NewDetector(PolicyLatest, 0)
	d.now = func() time.Time { return now }

	items := []domain.Item{
		{Link: "https://example.com/a", Title: "A", Published: now.Add(-3 * time.Hour)},
		{Link: "https://example.com/b", Title: "B", Published: now.Add(-time.Hour)},
		{Link: "https://example.com/c", Title: "C", Published: now.Add(-2 * time.Hour)},
	}

	fresh := d.Detect(items, nil)
	require.Len(t, fresh, 1)
	assert.Equal(t, "B", fresh[0].Title)

	assert.Empty(t, d.Detect(nil, nil), "empty feed yields nothing")
}

func TestLatest(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, ok := Latest(nil)
	assert.False(t, ok)

	latest, ok := Latest([]domain.Item{
		{Title: "first", Published: base},
		{Title: "third", Published: base.Add(2 * time.Hour)},
		{Title: "second", Published: base.Add(time.Hour)},
	})
	require.True(t, ok)
	assert.Equal(t, "third", latest.Title)
}
