package domain

import "time"

// Cursor is the durable "last seen" marker for a source. LastSeenAt is
// monotonic: it never goes backwards while the source stays active.
type Cursor struct {
	LastSeenID string
	LastSeenAt time.Time
}

// Advance returns a cursor moved to the given identity/timestamp. A commit
// with an older timestamp keeps the stored timestamp and identity, so a
// dateless item observed late can never pull the cursor back.
func (c Cursor) Advance(id string, ts time.Time) Cursor {
	if ts.Before(c.LastSeenAt) {
		return c
	}
	return Cursor{LastSeenID: id, LastSeenAt: ts}
}
