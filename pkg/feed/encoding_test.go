package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestDecodeBest_UTF8(t *testing.T) {
	const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Новости</title>
<item><title>Первая запись</title><link>https://example.com/1</link></item>
<item><title>Вторая запись</title><link>https://example.com/2</link></item>
</channel></rss>`

	parsed, encName, err := decodeBest([]byte(feed))
	require.NoError(t, err)
	assert.Equal(t, "utf-8", encName, "clean utf-8 wins the tie against re-decodings")
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, "Первая запись", parsed.Items[0].Title)
}

func TestDecodeBest_Windows1251(t *testing.T) {
	const feed = `<?xml version="1.0" encoding="windows-1251"?>
<rss version="2.0"><channel><title>Новости</title>
<item><title>Первая запись</title><link>https://example.com/1</link></item>
</channel></rss>`

	// produce the raw bytes the way a legacy endpoint would serve them
	raw, err := charmap.Windows1251.NewEncoder().Bytes([]byte(feed))
	require.NoError(t, err)

	parsed, _, err := decodeBest(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, "Первая запись", parsed.Items[0].Title)
}

func TestDecodeBest_Unparseable(t *testing.T) {
	_, _, err := decodeBest([]byte("{definitely not a feed}"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyFeed)
}
