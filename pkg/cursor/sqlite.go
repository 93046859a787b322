package cursor

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/feedrelay/feedrelay/pkg/domain"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteStore keeps cursors in a SQLite database. Each mutation runs in a
// transaction, so evict removes the cursor and failure count atomically and
// a killed process can never leave a half-written record.
type SQLiteStore struct {
	db *sqlx.DB
}

// cursorSQL represents a cursor row for SQL operations, updated_at is
// bookkeeping only and never read back
type cursorSQL struct {
	SourceID   string     `db:"source_id"`
	LastSeenID *string    `db:"last_seen_id"`
	LastSeenAt *time.Time `db:"last_seen_at"`
	Failures   int        `db:"failures"`
}

const cursorColumns = "source_id, last_seen_id, last_seen_at, failures"

// NewSQLiteStore opens (and initializes) the cursor database
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the cursor for a source, nil when the source has none
func (s *SQLiteStore) Get(ctx context.Context, sourceID string) (*domain.Cursor, error) {
	var row cursorSQL
	err := s.db.GetContext(ctx, &row, "SELECT "+cursorColumns+" FROM cursors WHERE source_id = ?", sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get", SourceID: sourceID, Err: err}
	}
	if row.LastSeenAt == nil {
		return nil, nil // failure-only row, no cursor yet
	}

	cur := &domain.Cursor{LastSeenAt: row.LastSeenAt.UTC()}
	if row.LastSeenID != nil {
		cur.LastSeenID = *row.LastSeenID
	}
	return cur, nil
}

// Commit durably replaces the cursor for a source. Monotonic: an older
// timestamp never moves the stored cursor backwards.
func (s *SQLiteStore) Commit(ctx context.Context, sourceID, itemID string, ts time.Time) error {
	err := s.withRetry(ctx, func() error {
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			var row cursorSQL
			err := tx.GetContext(ctx, &row, "SELECT "+cursorColumns+" FROM cursors WHERE source_id = ?", sourceID)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("read cursor: %w", err)
			}

			cur := domain.Cursor{}
			if row.LastSeenAt != nil {
				cur.LastSeenAt = row.LastSeenAt.UTC()
				if row.LastSeenID != nil {
					cur.LastSeenID = *row.LastSeenID
				}
			}
			next := cur.Advance(itemID, ts.UTC())

			_, err = tx.ExecContext(ctx, `
				INSERT INTO cursors (source_id, last_seen_id, last_seen_at, failures, updated_at)
				VALUES (?, ?, ?, 0, datetime('now'))
				ON CONFLICT(source_id) DO UPDATE SET
					last_seen_id = excluded.last_seen_id,
					last_seen_at = excluded.last_seen_at,
					updated_at = excluded.updated_at
			`, sourceID, next.LastSeenID, next.LastSeenAt)
			if err != nil {
				return fmt.Errorf("write cursor: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return &PersistenceError{Op: "commit", SourceID: sourceID, Err: err}
	}
	return nil
}

// Evict removes the cursor and failure count for a source atomically
func (s *SQLiteStore) Evict(ctx context.Context, sourceID string) error {
	err := s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM cursors WHERE source_id = ?", sourceID)
		return err
	})
	if err != nil {
		return &PersistenceError{Op: "evict", SourceID: sourceID, Err: err}
	}
	return nil
}

// Failures returns the consecutive failure count for a source
func (s *SQLiteStore) Failures(ctx context.Context, sourceID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT failures FROM cursors WHERE source_id = ?", sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, &PersistenceError{Op: "failures", SourceID: sourceID, Err: err}
	}
	return count, nil
}

// RecordFailure increments and persists the failure count
func (s *SQLiteStore) RecordFailure(ctx context.Context, sourceID string) (int, error) {
	var count int
	err := s.withRetry(ctx, func() error {
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO cursors (source_id, failures, updated_at)
				VALUES (?, 1, datetime('now'))
				ON CONFLICT(source_id) DO UPDATE SET
					failures = failures + 1,
					updated_at = excluded.updated_at
			`, sourceID)
			if err != nil {
				return fmt.Errorf("bump failures: %w", err)
			}
			return tx.GetContext(ctx, &count, "SELECT failures FROM cursors WHERE source_id = ?", sourceID)
		})
	})
	if err != nil {
		return 0, &PersistenceError{Op: "record failure", SourceID: sourceID, Err: err}
	}
	return count, nil
}

// ResetFailures zeroes the failure count
func (s *SQLiteStore) ResetFailures(ctx context.Context, sourceID string) error {
	err := s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "UPDATE cursors SET failures = 0 WHERE source_id = ? AND failures != 0", sourceID)
		return err
	})
	if err != nil {
		return &PersistenceError{Op: "reset failures", SourceID: sourceID, Err: err}
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error { return s.db.Close() }

// inTx runs fn inside a transaction
func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// withRetry retries the operation on SQLite lock/busy errors
func (s *SQLiteStore) withRetry(ctx context.Context, op func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		err := op()
		if err != nil && !isLockError(err) {
			return &criticalError{err: err}
		}
		return err
	})
}

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string { return e.err.Error() }
func (e *criticalError) Unwrap() error { return e.err }

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
