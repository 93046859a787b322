// Package scheduler drives the fetch -> detect -> dispatch cycle across all
// active sources on a fixed interval. The scheduler holds no durable state:
// everything that must survive a restart lives in the cursor store.
package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/feedrelay/feedrelay/pkg/domain"
	"github.com/feedrelay/feedrelay/pkg/novelty"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/detector.go -pkg mocks -skip-ensure -fmt goimports . Detector
//go:generate moq -out mocks/dispatcher.go -pkg mocks -skip-ensure -fmt goimports . Dispatcher
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/quarantine.go -pkg mocks -skip-ensure -fmt goimports . Quarantine

// Fetcher retrieves and parses one feed
type Fetcher interface {
	Fetch(ctx context.Context, src domain.Source) ([]domain.Item, error)
}

// Detector computes the ordered set of new items for a source
type Detector interface {
	Detect(items []domain.Item, cur *domain.Cursor) []domain.Item
}

// Dispatcher delivers new items and checkpoints after each one
type Dispatcher interface {
	DispatchAll(ctx context.Context, src domain.Source, items []domain.Item) (sent int, err error)
	ResetCycle()
}

// Store is the slice of the cursor store the scheduler reads and the
// cold-start initialization writes through
type Store interface {
	Get(ctx context.Context, sourceID string) (*domain.Cursor, error)
	Commit(ctx context.Context, sourceID, itemID string, ts time.Time) error
}

// Quarantine tracks per-source failures and reports evictions
type Quarantine interface {
	RecordSuccess(ctx context.Context, sourceID string) error
	RecordFailure(ctx context.Context, sourceID string) (evicted bool, err error)
}

// Params holds scheduler construction parameters
type Params struct {
	Sources    []domain.Source
	Fetcher    Fetcher
	Detector   Detector
	Dispatcher Dispatcher
	Store      Store
	Quarantine Quarantine

	CycleInterval  time.Duration
	SourcePauseMin time.Duration
	SourcePauseMax time.Duration
	MaxWorkers     int
}

// Status is a point-in-time snapshot for the status surface
type Status struct {
	Cycling       bool      `json:"cycling"`
	LastCycle     time.Time `json:"last_cycle,omitzero"`
	NextCycle     time.Time `json:"next_cycle,omitzero"`
	ActiveSources int       `json:"active_sources"`
	EvictedTotal  int       `json:"evicted_total"`
	SentTotal     int       `json:"sent_total"`
	CyclesTotal   int       `json:"cycles_total"`
}

// Scheduler runs the polling loop
type Scheduler struct {
	fetcher    Fetcher
	detector   Detector
	dispatcher Dispatcher
	store      Store
	quarantine Quarantine

	cycleInterval  time.Duration
	sourcePauseMin time.Duration
	sourcePauseMax time.Duration
	maxWorkers     int

	mu     sync.Mutex
	active []domain.Source
	status Status

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler over the given active source list
func NewScheduler(p Params) *Scheduler {
	if p.CycleInterval == 0 {
		p.CycleInterval = 20 * time.Minute
	}
	if p.MaxWorkers == 0 {
		p.MaxWorkers = 1
	}

	return &Scheduler{
		fetcher:        p.Fetcher,
		detector:       p.Detector,
		dispatcher:     p.Dispatcher,
		store:          p.Store,
		quarantine:     p.Quarantine,
		cycleInterval:  p.CycleInterval,
		sourcePauseMin: p.SourcePauseMin,
		sourcePauseMax: p.SourcePauseMax,
		maxWorkers:     p.MaxWorkers,
		active:         p.Sources,
	}
}

// Start begins the background polling loop
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop(ctx)

	lgr.Printf("[INFO] scheduler started, %d sources, cycle interval %v", len(s.active), s.cycleInterval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// Status returns a snapshot of the scheduler state
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.ActiveSources = len(s.active)
	return st
}

// loop runs one cycle immediately and then every cycleInterval. Cycles run
// strictly one after another, which guarantees at most one in-flight
// fetch/dispatch per source.
func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cycleInterval)
	defer ticker.Stop()

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle processes every active source once
func (s *Scheduler) runCycle(ctx context.Context) {
	s.mu.Lock()
	sources := make([]domain.Source, len(s.active))
	copy(sources, s.active)
	s.status.Cycling = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.status.Cycling = false
		s.status.LastCycle = time.Now()
		s.status.NextCycle = time.Now().Add(s.cycleInterval)
		s.status.CyclesTotal++
		s.mu.Unlock()
	}()

	lgr.Printf("[INFO] cycle started, %d sources", len(sources))
	s.dispatcher.ResetCycle()

	if s.maxWorkers <= 1 {
		for i, src := range sources {
			if ctx.Err() != nil {
				return
			}
			s.processSource(ctx, src)
			if i < len(sources)-1 {
				s.pause(ctx)
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.maxWorkers)
		for _, src := range sources {
			g.Go(func() error {
				// stagger outbound requests even when running concurrently
				s.pause(gctx)
				s.processSource(gctx, src)
				return nil
			})
		}
		_ = g.Wait()
	}

	lgr.Printf("[INFO] cycle completed")
}

// processSource runs fetch -> detect -> dispatch for one source and feeds
// the outcome to the quarantine manager. Failures never escape this method;
// they are converted to failure records at the per-source boundary.
func (s *Scheduler) processSource(ctx context.Context, src domain.Source) {
	lgr.Printf("[DEBUG] checking %s", src.ID())

	items, err := s.fetcher.Fetch(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return // shutdown, not a source failure
		}
		lgr.Printf("[WARN] fetch failed for %s: %v", src.ID(), err)
		s.recordFailure(ctx, src)
		return
	}

	cur, err := s.store.Get(ctx, src.ID())
	if err != nil {
		lgr.Printf("[ERROR] cursor read failed for %s: %v", src.ID(), err)
		return
	}

	fresh := s.detector.Detect(items, cur)

	// first observation with nothing inside the window: initialize the
	// cursor to the newest item so the next cycle has a baseline, without
	// dispatching anything
	if cur == nil && len(fresh) == 0 {
		if latest, ok := novelty.Latest(items); ok {
			if err := s.store.Commit(ctx, src.ID(), latest.Identity(), latest.Published); err != nil {
				lgr.Printf("[WARN] cursor init failed for %s: %v", src.ID(), err)
				s.recordFailure(ctx, src)
				return
			}
			lgr.Printf("[INFO] initialized cursor for %s at %s", src.ID(), latest.Published.Format(time.RFC3339))
		}
		s.recordSuccess(ctx, src)
		return
	}

	if len(fresh) == 0 {
		lgr.Printf("[DEBUG] no new items for %s", src.ID())
		s.recordSuccess(ctx, src)
		return
	}

	lgr.Printf("[INFO] %d new items for %s", len(fresh), src.ID())

	sent, err := s.dispatcher.DispatchAll(ctx, src, fresh)
	s.mu.Lock()
	s.status.SentTotal += sent
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		lgr.Printf("[WARN] dispatch halted for %s after %d items: %v", src.ID(), sent, err)
		s.recordFailure(ctx, src)
		return
	}

	s.recordSuccess(ctx, src)
}

// recordSuccess resets the source's failure count
func (s *Scheduler) recordSuccess(ctx context.Context, src domain.Source) {
	if err := s.quarantine.RecordSuccess(ctx, src.ID()); err != nil {
		lgr.Printf("[WARN] failed to reset failures for %s: %v", src.ID(), err)
	}
}

// recordFailure bumps the failure count and drops the source from the
// active set when the quarantine manager evicts it
func (s *Scheduler) recordFailure(ctx context.Context, src domain.Source) {
	evicted, err := s.quarantine.RecordFailure(ctx, src.ID())
	if err != nil {
		lgr.Printf("[WARN] failed to record failure for %s: %v", src.ID(), err)
		return
	}
	if !evicted {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.active {
		if a.ID() == src.ID() {
			s.active = append(s.active[:i], s.active[i+1:]...)
			break
		}
	}
	s.status.EvictedTotal++
}

// pause sleeps a uniform random interval between sources to smooth the
// outbound request rate, distinct from the inter-item dispatch delay
func (s *Scheduler) pause(ctx context.Context) {
	spread := s.sourcePauseMax - s.sourcePauseMin
	d := s.sourcePauseMin
	if spread > 0 {
		d += time.Duration(rand.Int63n(int64(spread))) //nolint:gosec // non-cryptographic jitter
	}
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
