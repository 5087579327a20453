// Package intakelog keeps an append-only CSV record of every voice and
// receipt intake attempt so the raw input can be surfaced for correction.
package intakelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Outcome of an intake attempt.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomePartial   Outcome = "partial"
	OutcomeRejected  Outcome = "rejected"
	OutcomeCommitted Outcome = "committed"
)

// Entry is one row in the intake log.
type Entry struct {
	Timestamp   time.Time
	Source      string // voice, ocr or manual
	Input       string
	Outcome     Outcome
	EntryNumber int64 // zero when nothing was committed
	Detail      string
}

// Header is the CSV header for intake-log.csv.
const Header = "timestamp,source,input,outcome,entry_number,detail"

// Dir is the ledger subdirectory holding the intake log.
const Dir = "logs"

const (
	numFields      = 6
	logFile        = "logs/intake-log.csv"
	colTimestamp   = 0
	colSource      = 1
	colInput       = 2
	colOutcome     = 3
	colEntryNumber = 4
	colDetail      = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colSource] = e.Source
	row[colInput] = e.Input
	row[colOutcome] = string(e.Outcome)
	if e.EntryNumber > 0 {
		row[colEntryNumber] = strconv.FormatInt(e.EntryNumber, 10)
	}
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var number int64
	if s := record[colEntryNumber]; s != "" {
		number, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Entry{}, fmt.Errorf("parsing entry number %q: %w", s, err)
		}
	}

	return Entry{
		Timestamp:   ts,
		Source:      record[colSource],
		Input:       record[colInput],
		Outcome:     Outcome(record[colOutcome]),
		EntryNumber: number,
		Detail:      record[colDetail],
	}, nil
}

// Log appends to <root>/logs/intake-log.csv. Writes from one process are
// serialized.
type Log struct {
	mu   sync.Mutex
	root string
	now  func() time.Time
}

// New creates a Log rooted at a ledger directory.
func New(root string) *Log {
	return &Log{root: root, now: time.Now}
}

// WithClock replaces the timestamp source.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Record stamps and appends one entry.
func (l *Log) Record(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return Append(l.root, []Entry{e})
}

// Read returns all recorded entries.
func (l *Log) Read() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Read(l.root)
}

// Append writes entries to <root>/logs/intake-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening intake log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/intake-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening intake log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading intake log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
