package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/sanad/internal/id"
	"github.com/cleared-dev/sanad/internal/model"
)

// Header is the CSV header of a journal export. description is the entry
// description and memo the line's own description, if any.
const Header = "entry,date,account_code,account_name,description,memo,debit,credit,source,reference,needs_review,reversal_of"

const (
	numFields     = 12
	dateFormat    = "2006-01-02"
	colEntry      = 0
	colDate       = 1
	colAcctCode   = 2
	colAcctName   = 3
	colDesc       = 4
	colMemo       = 5
	colDebit      = 6
	colCredit     = 7
	colSource     = 8
	colRef        = 9
	colReview     = 10
	colReversalOf = 11
)

// AccountLookup resolves account IDs for export.
type AccountLookup interface {
	Get(id string) (model.Account, bool)
}

// WriteEntries writes entries as one row per line, including the header.
func WriteEntries(w io.Writer, entries []model.JournalEntry, accts AccountLookup) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, e := range entries {
		for _, line := range e.Lines {
			if err := cw.Write(MarshalLine(e, line, accts)); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}
	return cw.Error()
}

// MarshalLine converts one line of an entry to a CSV row.
func MarshalLine(e model.JournalEntry, line model.Transaction, accts AccountLookup) []string {
	row := make([]string, numFields)
	row[colEntry] = id.FormatEntryNumber(e.Number)
	row[colDate] = e.Date.Format(dateFormat)
	row[colAcctCode] = line.AccountID
	if a, ok := accts.Get(line.AccountID); ok {
		row[colAcctCode] = a.Code
		row[colAcctName] = a.Name
	}

	row[colDesc] = e.Description
	row[colMemo] = line.Description

	debit, credit := line.DebitCredit()
	if debit != 0 {
		row[colDebit] = debit.String()
	}
	if credit != 0 {
		row[colCredit] = credit.String()
	}

	row[colSource] = string(e.Source)
	row[colRef] = e.Reference
	if e.NeedsReview {
		row[colReview] = "true"
	}
	if e.ReversalOf != 0 {
		row[colReversalOf] = id.FormatEntryNumber(e.ReversalOf)
	}
	return row
}
