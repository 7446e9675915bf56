package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// dayLayout formats the calendar-day half of a skip record.
const dayLayout = "2006-01-02"

// SkipStore persists (event, day) pairs that suppress alerts for a
// single occurrence of an event. The scheduler consumes it read-only
// through the SkipLookup interface; writes come from user actions.
type SkipStore struct {
	db *sql.DB
}

// OpenSkipStore opens (and if necessary creates) the skip database at
// the given path. ":memory:" is accepted for tests.
func OpenSkipStore(path string) (*SkipStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open skip database: %w", err)
	}

	s := &SkipStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SkipStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS skipped_occurrences (
		event_id   TEXT NOT NULL,
		day        TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (event_id, day)
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate skip database: %w", err)
	}
	return nil
}

// IsSkipped reports whether the event's occurrence on the given day has
// been skipped. Lookup failures are treated as not skipped so a broken
// database never silences alerts.
func (s *SkipStore) IsSkipped(eventID string, day time.Time) bool {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(1) FROM skipped_occurrences WHERE event_id = ? AND day = ?`,
		eventID, day.Format(dayLayout),
	).Scan(&count)
	if err != nil {
		log.Printf("Skip lookup failed for %s/%s: %v", eventID, day.Format(dayLayout), err)
		return false
	}
	return count > 0
}

// Skip records a skipped occurrence. Skipping the same occurrence twice
// is a no-op.
func (s *SkipStore) Skip(eventID string, day time.Time) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO skipped_occurrences (event_id, day, created_at) VALUES (?, ?, ?)`,
		eventID, day.Format(dayLayout), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record skip: %w", err)
	}
	return nil
}

// Unskip removes a skipped occurrence. Removing a record that does not
// exist is a no-op.
func (s *SkipStore) Unskip(eventID string, day time.Time) error {
	_, err := s.db.Exec(
		`DELETE FROM skipped_occurrences WHERE event_id = ? AND day = ?`,
		eventID, day.Format(dayLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to remove skip: %w", err)
	}
	return nil
}

// PruneBefore drops skip records for days before the cutoff; they can
// never match a future occurrence.
func (s *SkipStore) PruneBefore(cutoff time.Time) error {
	res, err := s.db.Exec(
		`DELETE FROM skipped_occurrences WHERE day < ?`,
		cutoff.Format(dayLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to prune skips: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		log.Printf("Pruned %d old skip records", n)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SkipStore) Close() error {
	return s.db.Close()
}
