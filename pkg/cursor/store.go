// Package cursor owns all durable per-source state: the "last seen" cursor
// and the consecutive failure count. Every other component reads and mutates
// this state through the Store interface, never directly.
package cursor

import (
	"context"
	"fmt"
	"time"

	"github.com/feedrelay/feedrelay/pkg/domain"
)

// Store is the durable per-source record of last item seen and failures.
// Commit is a whole-record replacement, safe to call after every dispatched
// item; Evict removes the cursor and the failure count atomically.
type Store interface {
	Get(ctx context.Context, sourceID string) (*domain.Cursor, error)
	Commit(ctx context.Context, sourceID, itemID string, ts time.Time) error
	Evict(ctx context.Context, sourceID string) error

	Failures(ctx context.Context, sourceID string) (int, error)
	RecordFailure(ctx context.Context, sourceID string) (count int, err error)
	ResetFailures(ctx context.Context, sourceID string) error

	Close() error
}

// PersistenceError reports a failed cursor write. The affected item must be
// treated as not yet confirmed delivered; a duplicate delivery next cycle is
// accepted over a silent loss.
type PersistenceError struct {
	Op       string
	SourceID string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cursor %s for %s: %v", e.Op, e.SourceID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
