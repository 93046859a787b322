// Package dispatch delivers ordered new items to the sink one at a time,
// committing the cursor after every successful send and pacing sends with a
// randomized delay to respect the sink's rate budget.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/feedrelay/feedrelay/pkg/domain"
	"github.com/feedrelay/feedrelay/pkg/telegram"
)

//go:generate moq -out mocks/sink.go -pkg mocks -skip-ensure -fmt goimports . Sink
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Sink receives rendered item payloads, one call per item
type Sink interface {
	Send(ctx context.Context, item domain.Item, tag string) error
}

// Store commits the cursor after each confirmed delivery
type Store interface {
	Commit(ctx context.Context, sourceID, itemID string, ts time.Time) error
}

// DispatchError reports a sink delivery failure. It halts the source's
// cycle: items after the failed one stay new and are reconsidered next
// cycle, preserving ordering.
type DispatchError struct {
	SourceID string
	ItemID   string
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s from %s: %v", e.ItemID, e.SourceID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Config holds dispatcher settings
type Config struct {
	DelayMin     time.Duration // inter-item delay lower bound
	DelayMax     time.Duration // inter-item delay upper bound
	PerSourceCap int           // max items per source per cycle
	GlobalCap    int           // max items across all sources per cycle, 0 means unlimited
	SendRetries  int           // attempts per item when the sink throttles
}

// Dispatcher sends new items in order and checkpoints after each one
type Dispatcher struct {
	sink  Sink
	store Store
	cfg   Config

	cycleSent atomic.Int64

	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a dispatcher delivering through sink and
// checkpointing through store
func NewDispatcher(sink Sink, store Store, cfg Config) *Dispatcher {
	if cfg.SendRetries == 0 {
		cfg.SendRetries = 5
	}
	if cfg.PerSourceCap == 0 {
		cfg.PerSourceCap = 10
	}
	return &Dispatcher{sink: sink, store: store, cfg: cfg, sleep: sleepCtx}
}

// ResetCycle zeroes the global per-cycle budget, called at cycle start
func (d *Dispatcher) ResetCycle() {
	d.cycleSent.Store(0)
}

// DispatchAll delivers items (already ordered oldest-first) for one source.
// After every successful send the cursor is committed before anything else
// happens. The first failure stops the source's cycle: skipping a failed
// item would let a later commit mark it seen.
func (d *Dispatcher) DispatchAll(ctx context.Context, src domain.Source, items []domain.Item) (sent int, err error) {
	for i, item := range items {
		if sent >= d.cfg.PerSourceCap {
			lgr.Printf("[INFO] per-source cap %d reached for %s, %d items deferred", d.cfg.PerSourceCap, src.ID(), len(items)-i)
			return sent, nil
		}
		if d.globalCapReached() {
			lgr.Printf("[INFO] global cap %d reached, %d items from %s deferred", d.cfg.GlobalCap, len(items)-i, src.ID())
			return sent, nil
		}

		if err := d.sendOne(ctx, src, item); err != nil {
			return sent, &DispatchError{SourceID: src.ID(), ItemID: item.Identity(), Err: err}
		}

		// the item is delivered, checkpoint before any further sends so a
		// crash from here on can at worst re-deliver the next item
		if err := d.store.Commit(ctx, src.ID(), item.Identity(), item.Published); err != nil {
			return sent, fmt.Errorf("checkpoint after %s: %w", item.Identity(), err)
		}
		sent++
		d.cycleSent.Add(1)
		lgr.Printf("[INFO] sent %s (%s) from %s", item.Title, item.Published.Format(time.RFC3339), src.ID())

		// pause only when another send will actually follow, a capped
		// batch should not end on a dead wait
		if i < len(items)-1 && sent < d.cfg.PerSourceCap && !d.globalCapReached() {
			if err := d.sleep(ctx, d.randomDelay()); err != nil {
				return sent, err
			}
		}
	}
	return sent, nil
}

// globalCapReached reports whether the cycle-wide budget is spent
func (d *Dispatcher) globalCapReached() bool {
	return d.cfg.GlobalCap > 0 && d.cycleSent.Load() >= int64(d.cfg.GlobalCap)
}

// sendOne delivers a single item, honoring rate-limit backoffs with bounded
// re-attempts of the same item
func (d *Dispatcher) sendOne(ctx context.Context, src domain.Source, item domain.Item) error {
	var err error
	for attempt := 0; attempt < d.cfg.SendRetries; attempt++ {
		err = d.sink.Send(ctx, item, src.Tag)
		if err == nil {
			return nil
		}

		var rl *telegram.RateLimitedError
		if !errors.As(err, &rl) {
			return err
		}

		lgr.Printf("[WARN] sink rate limited, pausing %v before retrying %s", rl.RetryAfter, item.Identity())
		if sleepErr := d.sleep(ctx, rl.RetryAfter); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}

// randomDelay draws a uniform random inter-item delay from [min, max].
// Uniform rather than fixed so many sources don't fall into synchronized
// bursts against the shared sink.
func (d *Dispatcher) randomDelay() time.Duration {
	spread := d.cfg.DelayMax - d.cfg.DelayMin
	if spread <= 0 {
		return d.cfg.DelayMin
	}
	return d.cfg.DelayMin + time.Duration(rand.Int63n(int64(spread))) //nolint:gosec // non-cryptographic jitter
}

// sleepCtx sleeps for d or until the context is canceled
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
