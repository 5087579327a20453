package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/model"
)

// JournalParser reads journal CSVs in the export layout: one row per line,
// rows of one entry adjacent and sharing the entry column. Only the entry,
// date, account_code, description, debit and credit columns are required.
//
// description is the entry description. Line descriptions come from memo
// when the column is present; files without it carry a line description
// wherever it differs from the entry's first row. Entries are renumbered on
// commit, so reversal_of is not relinked; a reversal keeps the reversed
// entry's label in its reference.
type JournalParser struct{}

var requiredColumns = []string{"entry", "date", "account_code", "description", "debit", "credit"}

// Format returns the parser name.
func (p *JournalParser) Format() string { return "journal" }

// Extension returns the file extension the parser handles.
func (p *JournalParser) Extension() string { return ".csv" }

// Parse reads drafts, resolving account codes through accts. A bad row fails
// only the entry it belongs to: that Item carries the error and the rest of
// the file is still read.
func (p *JournalParser) Parse(r io.Reader, accts CodeLookup) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("journal CSV is missing column %q", name)
		}
	}
	_, hasMemo := col["memo"]
	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		items   []Item
		current *Item
		key     string
	)
	for i, rec := range records[1:] {
		row := i + 2
		entry := get(rec, "entry")
		if current == nil || entry != key {
			items = append(items, newJournalItem(row, entry, rec, get))
			current, key = &items[len(items)-1], entry
		}
		if current.Err != nil {
			continue
		}

		line, err := parseJournalLine(get(rec, "account_code"), get(rec, "debit"), get(rec, "credit"), accts)
		if err != nil {
			current.Err = fmt.Errorf("row %d: %w", row, err)
			current.Draft = nil
			continue
		}
		switch desc := get(rec, "description"); {
		case hasMemo:
			line.Description = get(rec, "memo")
		case desc != current.Draft.Description:
			line.Description = desc
		}
		current.Draft.Lines = append(current.Draft.Lines, line)
	}
	return items, nil
}

func newJournalItem(row int, entry string, rec []string, get func([]string, string) string) Item {
	date, err := time.Parse(time.DateOnly, get(rec, "date"))
	if err != nil {
		return Item{Line: row, Err: fmt.Errorf("row %d: parsing date %q: %w", row, get(rec, "date"), err)}
	}
	ref := get(rec, "reference")
	if ref == "" {
		ref = entry
	}
	source := model.Source(get(rec, "source"))
	switch source {
	case model.SourceManual, model.SourceVoice, model.SourceOCR:
	default:
		source = model.SourceManual
	}
	return Item{Line: row, Draft: &model.DraftEntry{
		Date:        date,
		Description: get(rec, "description"),
		Reference:   ref,
		Source:      source,
		NeedsReview: get(rec, "needs_review") == "true",
	}}
}

func parseJournalLine(code, debit, credit string, accts CodeLookup) (model.Transaction, error) {
	acct, ok := accts.GetByCode(code)
	if !ok {
		return model.Transaction{}, apperr.ErrUnknownAccount.Withf("no account with code %q", code)
	}
	switch {
	case debit != "" && credit == "":
		amount, err := model.ParseAmount(debit)
		if err != nil {
			return model.Transaction{}, err
		}
		return model.Transaction{AccountID: acct.ID, Type: model.Debit, Amount: amount}, nil
	case credit != "" && debit == "":
		amount, err := model.ParseAmount(credit)
		if err != nil {
			return model.Transaction{}, err
		}
		return model.Transaction{AccountID: acct.ID, Type: model.Credit, Amount: amount}, nil
	default:
		return model.Transaction{}, apperr.ErrInvalidLine.Withf("account %s needs exactly one of debit or credit", code)
	}
}
