package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/facultyscan/facultyscan/internal/model"
)

// SQLiteStore persists contact records into a single-table embedded
// database. The email_key column carries the normalized address and a
// UNIQUE constraint, so the sink enforces the dedup invariant even if
// another process wrote to the same file between runs.
type SQLiteStore struct {
	mu    sync.Mutex
	db    *sql.DB
	index map[string]bool
}

// OpenSQLite opens or creates the embedded sink at path. The existing
// emails are loaded into the dedup index regardless of append mode: a
// relational sink is always additive.
func OpenSQLite(path string, _ Options) (*SQLiteStore, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer; a larger pool only causes lock churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{
		db:    db,
		index: make(map[string]bool),
	}
	if err := s.createTable(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	if err := s.loadIndex(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load dedup index: %w", err)
	}
	return s, nil
}

// createTable creates the schema if it doesn't exist.
func (s *SQLiteStore) createTable() error {
	schema := `
	CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		email TEXT NOT NULL,
		email_key TEXT NOT NULL UNIQUE,
		affiliation TEXT,
		source_url TEXT,
		subject TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_contacts_affiliation ON contacts(affiliation);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// loadIndex reads every stored dedup key into memory so Submit can
// answer Duplicate without a round trip per candidate.
func (s *SQLiteStore) loadIndex() error {
	rows, err := s.db.QueryContext(context.Background(), "SELECT email_key FROM contacts")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return err
		}
		s.index[key] = true
	}
	return rows.Err()
}

// Submit implements Store.
func (s *SQLiteStore) Submit(ctx context.Context, contact model.Contact) (Status, error) {
	if !model.ValidEmail(contact.Email) {
		return Rejected, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := contact.Key()
	if s.index[key] {
		return Duplicate, nil
	}

	query := `
	INSERT INTO contacts (name, email, email_key, affiliation, source_url, subject)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(email_key) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		contact.Name,
		contact.Email,
		key,
		contact.Affiliation,
		contact.SourceURL,
		contact.Subject,
	)
	if err != nil {
		return Rejected, fmt.Errorf("sink write failed: %w", err)
	}

	s.index[key] = true

	affected, err := result.RowsAffected()
	if err != nil {
		return Rejected, fmt.Errorf("sink write failed: %w", err)
	}
	if affected == 0 {
		// Another writer got there first; the UNIQUE constraint held.
		return Duplicate, nil
	}
	return Accepted, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
