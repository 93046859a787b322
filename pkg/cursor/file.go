package cursor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/feedrelay/feedrelay/pkg/domain"
)

// fileRecord is one entry of the cursor file, keyed by source URL.
// The format is intentionally human-readable: a hand-deleted entry forces a
// cold start for that source, a hand-edited timestamp moves the cursor.
type fileRecord struct {
	LastSeenID string `json:"last_seen_id,omitempty"`
	LastSeenAt string `json:"last_seen_at,omitempty"` // ISO-8601
	Failures   int    `json:"failures,omitempty"`
}

// FileStore keeps cursors in a single JSON file. Every mutation rewrites the
// whole file via write-to-temp-then-rename, so a torn write can never leave
// a structurally invalid state on disk.
type FileStore struct {
	path string

	mu      sync.Mutex
	records map[string]fileRecord
}

// NewFileStore loads (or initializes) the cursor file at path
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, records: map[string]fileRecord{}}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil // first run
	case err != nil:
		return nil, fmt.Errorf("read cursor file: %w", err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		// the file is hand-editable, treat a broken one as a cold start
		lgr.Printf("[WARN] cursor file %s is not valid JSON, starting empty: %v", path, err)
		s.records = map[string]fileRecord{}
	}
	return s, nil
}

// Get returns the cursor for a source, nil when the source has none
func (s *FileStore) Get(_ context.Context, sourceID string) (*domain.Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[sourceID]
	if !ok || rec.LastSeenAt == "" {
		return nil, nil
	}

	ts, err := time.Parse(time.RFC3339, rec.LastSeenAt)
	if err != nil {
		// hand-edited to something unparseable, same as no cursor
		lgr.Printf("[WARN] bad timestamp %q for %s, treating as cold start", rec.LastSeenAt, sourceID)
		return nil, nil
	}

	return &domain.Cursor{LastSeenID: rec.LastSeenID, LastSeenAt: ts}, nil
}

// Commit durably replaces the cursor for a source. Idempotent and monotonic:
// committing an already-seen item or an older timestamp never moves the
// cursor backwards.
func (s *FileStore) Commit(_ context.Context, sourceID, itemID string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := domain.Cursor{}
	if rec, ok := s.records[sourceID]; ok && rec.LastSeenAt != "" {
		if prev, err := time.Parse(time.RFC3339, rec.LastSeenAt); err == nil {
			cur = domain.Cursor{LastSeenID: rec.LastSeenID, LastSeenAt: prev}
		}
	}
	next := cur.Advance(itemID, ts)

	rec := s.records[sourceID]
	rec.LastSeenID = next.LastSeenID
	rec.LastSeenAt = next.LastSeenAt.UTC().Format(time.RFC3339)
	s.records[sourceID] = rec

	if err := s.save(); err != nil {
		return &PersistenceError{Op: "commit", SourceID: sourceID, Err: err}
	}
	return nil
}

// Evict removes the cursor and failure count for a source in one write
func (s *FileStore) Evict(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, sourceID)
	if err := s.save(); err != nil {
		return &PersistenceError{Op: "evict", SourceID: sourceID, Err: err}
	}
	return nil
}

// Failures returns the consecutive failure count for a source
func (s *FileStore) Failures(_ context.Context, sourceID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[sourceID].Failures, nil
}

// RecordFailure increments and persists the failure count
func (s *FileStore) RecordFailure(_ context.Context, sourceID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.records[sourceID]
	rec.Failures++
	s.records[sourceID] = rec

	if err := s.save(); err != nil {
		return 0, &PersistenceError{Op: "record failure", SourceID: sourceID, Err: err}
	}
	return rec.Failures, nil
}

// ResetFailures zeroes the failure count
func (s *FileStore) ResetFailures(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[sourceID]
	if !ok || rec.Failures == 0 {
		return nil
	}
	rec.Failures = 0
	s.records[sourceID] = rec

	if err := s.save(); err != nil {
		return &PersistenceError{Op: "reset failures", SourceID: sourceID, Err: err}
	}
	return nil
}

// Close is a no-op for the file backend
func (s *FileStore) Close() error { return nil }

// save writes the whole record set to a temp file and renames it over the
// target, callers must hold the lock
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cursors: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".cursors-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
