// Package quarantine tracks consecutive per-source failures and evicts
// sources that keep failing. Eviction is a circuit breaker: a permanently
// broken endpoint (wrong URL, discontinued feed) stops wasting cycles, and
// re-inclusion requires external reconfiguration, never an automatic retry.
package quarantine

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store is the slice of the cursor store the manager needs: failure
// counters plus eviction. The manager never touches state directly.
type Store interface {
	RecordFailure(ctx context.Context, sourceID string) (count int, err error)
	ResetFailures(ctx context.Context, sourceID string) error
	Evict(ctx context.Context, sourceID string) error
}

// Manager applies the failure-count state machine per source:
// Active(0..N-1) -> Active(N) -> Evicted, with any success resetting to 0.
type Manager struct {
	store     Store
	threshold int
}

// NewManager creates a manager that evicts after threshold consecutive failures
func NewManager(store Store, threshold int) *Manager {
	return &Manager{store: store, threshold: threshold}
}

// RecordSuccess unconditionally resets the source's failure count
func (m *Manager) RecordSuccess(ctx context.Context, sourceID string) error {
	if err := m.store.ResetFailures(ctx, sourceID); err != nil {
		return fmt.Errorf("reset failures for %s: %w", sourceID, err)
	}
	return nil
}

// RecordFailure increments the failure count and, at the threshold, evicts
// the source's state entirely. The caller must drop an evicted source from
// its active polling set; the eviction is terminal for the running process.
func (m *Manager) RecordFailure(ctx context.Context, sourceID string) (evicted bool, err error) {
	count, err := m.store.RecordFailure(ctx, sourceID)
	if err != nil {
		return false, fmt.Errorf("record failure for %s: %w", sourceID, err)
	}

	if count < m.threshold {
		lgr.Printf("[WARN] source %s failed (%d of %d)", sourceID, count, m.threshold)
		return false, nil
	}

	if err := m.store.Evict(ctx, sourceID); err != nil {
		return false, fmt.Errorf("evict %s: %w", sourceID, err)
	}
	lgr.Printf("[WARN] source %s evicted after %d consecutive failures", sourceID, count)
	return true, nil
}
