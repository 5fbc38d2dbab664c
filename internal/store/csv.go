package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/facultyscan/facultyscan/internal/model"
)

// csvHeader is the fixed column order of the tabular sink. The subject
// column, when present, always comes last.
var csvHeader = []string{"name", "email", "affiliation", "source_url"}

const subjectColumn = "subject"

// CSVStore appends contact records to a CSV file.
//
// In append mode the existing file's emails are loaded into the dedup
// index up front and new rows are appended without rewriting the header.
// Whether the subject column is written is decided by the existing
// header when appending, or by Options.Subject for a fresh file.
type CSVStore struct {
	mu      sync.Mutex
	file    *os.File
	writer  *csv.Writer
	index   map[string]bool
	subject bool
}

// OpenCSV opens or creates the tabular sink at path.
func OpenCSV(path string, opts Options) (*CSVStore, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	s := &CSVStore{
		index:   make(map[string]bool),
		subject: opts.Subject,
	}

	appending := false
	if opts.Append {
		existing, err := os.Open(path) //nolint:gosec // User-provided output path is intentional
		switch {
		case err == nil:
			populated, loadErr := s.loadExisting(existing)
			_ = existing.Close()
			if loadErr != nil {
				return nil, loadErr
			}
			appending = populated
		case os.IsNotExist(err):
			// First run against this path: fall through to create.
		default:
			return nil, fmt.Errorf("failed to open existing sink: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appending {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open sink: %w", err)
	}
	s.file = file
	s.writer = csv.NewWriter(file)

	if !appending {
		header := csvHeader
		if s.subject {
			header = append(append([]string{}, csvHeader...), subjectColumn)
		}
		if err := s.writer.Write(header); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		s.writer.Flush()
		if err := s.writer.Error(); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	return s, nil
}

// loadExisting reads the existing file's header and emails so that
// duplicates across runs are caught before the first candidate. It
// reports whether the file held a header; a zero-byte file is a fresh
// sink and the caller must still write one.
func (s *CSVStore) loadExisting(r io.Reader) (bool, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read existing header: %w", err)
	}

	emailCol := -1
	s.subject = false
	for i, col := range header {
		switch col {
		case "email":
			emailCol = i
		case subjectColumn:
			s.subject = true
		}
	}
	if emailCol < 0 {
		return false, errors.New("existing sink has no email column")
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to read existing sink: %w", err)
		}
		if emailCol < len(row) {
			if key := model.NormalizeEmail(row[emailCol]); key != "" {
				s.index[key] = true
			}
		}
	}
}

// Submit implements Store.
func (s *CSVStore) Submit(_ context.Context, contact model.Contact) (Status, error) {
	if !model.ValidEmail(contact.Email) {
		return Rejected, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := contact.Key()
	if s.index[key] {
		return Duplicate, nil
	}

	row := []string{contact.Name, contact.Email, contact.Affiliation, contact.SourceURL}
	if s.subject {
		row = append(row, contact.Subject)
	}
	if err := s.writer.Write(row); err != nil {
		return Rejected, fmt.Errorf("sink write failed: %w", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return Rejected, fmt.Errorf("sink write failed: %w", err)
	}

	s.index[key] = true
	return Accepted, nil
}

// Close implements Store.
func (s *CSVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}
