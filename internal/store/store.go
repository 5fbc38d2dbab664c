package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/facultyscan/facultyscan/internal/model"
)

// Status is the outcome of submitting one candidate.
type Status int

const (
	// Accepted means the candidate was validated and written as a new record.
	Accepted Status = iota

	// Duplicate means the normalized email was already present; nothing
	// was written.
	Duplicate

	// Rejected means the email failed validation; nothing was written.
	Rejected
)

// String returns a short label for logging and summaries.
func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Duplicate:
		return "duplicate"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Format selects the sink implementation.
type Format string

const (
	// FormatCSV writes a tabular file with a fixed header.
	FormatCSV Format = "csv"

	// FormatSQLite writes a single-table embedded database.
	FormatSQLite Format = "sqlite"
)

// ErrUnknownFormat is returned for a sink format other than csv or sqlite.
var ErrUnknownFormat = errors.New("unknown sink format")

// ParseFormat validates a format selector from the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatSQLite:
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q (use csv or sqlite)", ErrUnknownFormat, s)
	}
}

// Store is the persistence contract shared by the crawler and the
// manual importer.
type Store interface {
	// Submit validates, deduplicates, and persists one candidate.
	// A non-nil error means the sink is in an unknown state and the
	// run must abort.
	Submit(ctx context.Context, contact model.Contact) (Status, error)

	// Close flushes and releases the sink.
	Close() error
}

// Options configures sink opening.
type Options struct {
	// Append keeps existing records and loads them into the dedup
	// index instead of replacing the sink.
	Append bool

	// Subject includes the optional subject column in new CSV sinks.
	// Ignored for SQLite, which always carries the column. When
	// appending to an existing CSV the file's own header wins.
	Subject bool
}

// Open creates or opens a sink of the given format at path.
func Open(format Format, path string, opts Options) (Store, error) {
	switch format {
	case FormatCSV:
		return OpenCSV(path, opts)
	case FormatSQLite:
		return OpenSQLite(path, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ensureParentDir creates the directory that will hold the sink file.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
