package model

import "time"

// Source records which intake path produced an entry.
type Source string

const (
	SourceManual Source = "manual"
	SourceVoice  Source = "voice"
	SourceOCR    Source = "ocr"
)

// DraftEntry is an unnumbered, mutable entry awaiting commit.
type DraftEntry struct {
	Date        time.Time
	Description string
	Reference   string
	Source      Source
	Lines       []Transaction
	NeedsReview bool
	RawInput    string
}

// JournalEntry is a committed, immutable entry. Corrections are new entries.
type JournalEntry struct {
	ID          string
	Number      int64
	Date        time.Time
	Description string
	Reference   string
	Source      Source
	Lines       []Transaction
	NeedsReview bool
	RawInput    string
	ReversalOf  int64 // 0 unless this entry reverses another
	CreatedAt   time.Time
}

// Totals returns the summed debit and credit sides of the entry. Committed
// entries never overflow.
func (e JournalEntry) Totals() (debit, credit Amount) {
	debit, credit, _ = SumLines(e.Lines)
	return debit, credit
}

// Totals returns the summed debit and credit sides of the draft. Use SumLines
// for lines that have not been validated.
func (d DraftEntry) Totals() (debit, credit Amount) {
	debit, credit, _ = SumLines(d.Lines)
	return debit, credit
}

// SumLines totals the debit and credit sides of lines. It reports false if
// either side overflows.
func SumLines(lines []Transaction) (debit, credit Amount, ok bool) {
	for _, l := range lines {
		switch l.Type {
		case Debit:
			if debit, ok = debit.Add(l.Amount); !ok {
				return 0, 0, false
			}
		case Credit:
			if credit, ok = credit.Add(l.Amount); !ok {
				return 0, 0, false
			}
		}
	}
	return debit, credit, true
}

// Day truncates t to midnight UTC, the granularity of entry dates.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
