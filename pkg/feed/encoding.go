package feed

import (
	"fmt"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// regionalEncodings lists trial encodings in preference order. A nil decoder
// means the bytes are taken as-is (utf-8). Ties in item count go to the
// earlier entry.
var regionalEncodings = []struct {
	name    string
	decoder *encoding.Decoder
}{
	{"utf-8", nil},
	{"windows-1251", charmap.Windows1251.NewDecoder()},
	{"koi8-r", charmap.KOI8R.NewDecoder()},
	{"iso-8859-5", charmap.ISO8859_5.NewDecoder()},
}

// decodeBest trial-decodes raw feed bytes under each regional encoding and
// returns the parse that yielded the most items
func decodeBest(raw []byte) (best *gofeed.Feed, encodingName string, err error) {
	maxItems := 0

	for _, enc := range regionalEncodings {
		data := raw
		if enc.decoder != nil {
			decoded, decErr := enc.decoder.Bytes(raw)
			if decErr != nil {
				continue
			}
			data = decoded
		}

		parsed, parseErr := gofeed.NewParser().ParseString(string(data))
		if parseErr != nil {
			continue
		}
		if len(parsed.Items) > maxItems {
			maxItems = len(parsed.Items)
			best = parsed
			encodingName = enc.name
		}
	}

	if best == nil {
		return nil, "", fmt.Errorf("no encoding produced a parseable feed: %w", ErrEmptyFeed)
	}
	return best, encodingName, nil
}
