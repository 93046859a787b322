// Package novelty decides which freshly fetched items are new relative to a
// source's cursor. Detection is a pure function of its inputs: the same item
// list, cursor, and clock always produce the same result.
package novelty

import (
	"sort"
	"time"

	"github.com/feedrelay/feedrelay/pkg/domain"
)

// Policy selects cold-start behavior for a source with no cursor
type Policy string

const (
	// PolicyWindow treats all items newer than now-window as new on the
	// first observation of a source
	PolicyWindow Policy = "window"
	// PolicyLatest treats only the single most recent item as new on the
	// first observation of a source
	PolicyLatest Policy = "latest"
)

// Detector compares fetched items against a cursor and produces the ordered
// set of new items, oldest first
type Detector struct {
	policy Policy
	window time.Duration
	now    func() time.Time
}

// NewDetector creates a detector with the given cold-start policy.
// The window applies to PolicyWindow only.
func NewDetector(policy Policy, window time.Duration) *Detector {
	return &Detector{policy: policy, window: window, now: time.Now}
}

// Detect returns items not yet reflected in the cursor, ascending by
// timestamp so delivery preserves chronological order and the cursor
// advances monotonically as items are dispatched in sequence. Items sharing
// a timestamp keep their fetched relative order.
func (d *Detector) Detect(items []domain.Item, cur *domain.Cursor) []domain.Item {
	var fresh []domain.Item

	if cur == nil {
		fresh = d.coldStart(items)
	} else {
		for _, it := range items {
			if isNew(it, *cur) {
				fresh = append(fresh, it)
			}
		}
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].Published.Before(fresh[j].Published)
	})
	return fresh
}

// Latest returns the most recent item of the list, used to initialize a
// cursor when a cold start yields nothing to dispatch
func Latest(items []domain.Item) (domain.Item, bool) {
	if len(items) == 0 {
		return domain.Item{}, false
	}
	latest := items[0]
	for _, it := range items[1:] {
		if it.Published.After(latest.Published) {
			latest = it
		}
	}
	return latest, true
}

// isNew applies the novelty rule: strictly newer than the cursor, or the
// same timestamp with a different identity (tie-break)
func isNew(it domain.Item, cur domain.Cursor) bool {
	if it.Published.After(cur.LastSeenAt) {
		return true
	}
	return it.Published.Equal(cur.LastSeenAt) && it.Identity() != cur.LastSeenID
}

// coldStart applies the configured first-observation policy
func (d *Detector) coldStart(items []domain.Item) []domain.Item {
	switch d.policy {
	case PolicyLatest:
		if latest, ok := Latest(items); ok {
			return []domain.Item{latest}
		}
		return nil
	default: // PolicyWindow
		threshold := d.now().Add(-d.window)
		var fresh []domain.Item
		for _, it := range items {
			if it.Published.After(threshold) {
				fresh = append(fresh, it)
			}
		}
		return fresh
	}
}
