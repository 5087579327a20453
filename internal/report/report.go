// Package report builds trial balances, account ledgers and dashboard
// summaries from a consistent view of the ledger.
package report

import (
	"time"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/journal"
	"github.com/cleared-dev/sanad/internal/model"
)

// TrialBalanceRow is one account's own activity.
type TrialBalanceRow struct {
	AccountID string
	Code      string
	Name      string
	Type      model.AccountType
	Debit     model.Amount
	Credit    model.Amount
	Balance   model.Amount // signed by the account's normal side
}

// TrialBalance lists accounts with activity, ordered by code.
type TrialBalance struct {
	AsOf        time.Time
	Rows        []TrialBalanceRow
	TotalDebit  model.Amount
	TotalCredit model.Amount
}

// LedgerRow is one posting in an account ledger.
type LedgerRow struct {
	Date        time.Time
	Number      int64
	Description string
	Debit       model.Amount
	Credit      model.Amount
	Running     model.Amount
}

// AccountLedger is the posting history of an account subtree over a range.
type AccountLedger struct {
	Account model.Account
	From    time.Time
	To      time.Time
	Opening model.Amount
	Closing model.Amount
	Rows    []LedgerRow
}

// Summary holds dashboard totals.
type Summary struct {
	Entries     int
	Accounts    int
	NeedsReview int
	TotalDebit  model.Amount
	TotalCredit model.Amount
	Difference  model.Amount
	Recent      []model.JournalEntry
}

// Engine reads reports off a ledger.
type Engine struct {
	ledger *journal.Ledger
}

// New creates an Engine.
func New(ledger *journal.Ledger) *Engine {
	return &Engine{ledger: ledger}
}

// TrialBalance returns one row per account with activity on or before asOf
// (zero means all time). It fails with ErrTrialBalanceMismatch if debits and
// credits differ, and with ErrInconsistentAggregate if the account tree
// totals disagree with the sum of the rows.
func (e *Engine) TrialBalance(asOf time.Time) (TrialBalance, error) {
	if !asOf.IsZero() {
		asOf = model.Day(asOf)
	}
	tb := TrialBalance{AsOf: asOf}
	err := e.ledger.View(func(v *journal.View) error {
		var rootDebit, rootCredit model.Amount
		for _, a := range v.Accounts() {
			if a.IsRoot() {
				d, c := v.SubtreeTotals(a.ID, asOf)
				rootDebit += d
				rootCredit += c
			}
			debit, credit := v.OwnTotals(a.ID, asOf)
			if debit == 0 && credit == 0 {
				continue
			}
			tb.Rows = append(tb.Rows, TrialBalanceRow{
				AccountID: a.ID,
				Code:      a.Code,
				Name:      a.Name,
				Type:      a.Type,
				Debit:     debit,
				Credit:    credit,
				Balance:   accounts.Signed(a.Type, debit, credit),
			})
			tb.TotalDebit += debit
			tb.TotalCredit += credit
		}
		if rootDebit != tb.TotalDebit || rootCredit != tb.TotalCredit {
			return apperr.ErrInconsistentAggregate.
				Withf("account tree totals %s/%s differ from rows %s/%s",
					rootDebit, rootCredit, tb.TotalDebit, tb.TotalCredit)
		}
		return nil
	})
	if err != nil {
		return TrialBalance{}, err
	}
	if tb.TotalDebit != tb.TotalCredit {
		return TrialBalance{}, apperr.ErrTrialBalanceMismatch.
			Withf("debits %s do not equal credits %s", tb.TotalDebit, tb.TotalCredit).
			WithDetail("debit", tb.TotalDebit).
			WithDetail("credit", tb.TotalCredit)
	}
	return tb, nil
}

// Ledger returns the postings of an account and its descendants dated within
// [from, to], with a running balance that starts from the balance at the
// close of the day before from. Zero bounds are open.
func (e *Engine) Ledger(accountID string, from, to time.Time) (AccountLedger, error) {
	if !from.IsZero() {
		from = model.Day(from)
	}
	if !to.IsZero() {
		to = model.Day(to)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return AccountLedger{}, apperr.ErrInvalidRange.
			Withf("from %s is after to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	out := AccountLedger{From: from, To: to}
	err := e.ledger.View(func(v *journal.View) error {
		acct, ok := v.Account(accountID)
		if !ok {
			return apperr.ErrUnknownAccount.Withf("account %s not found", accountID)
		}
		out.Account = acct
		if !from.IsZero() {
			opening, err := v.BalanceAsOf(accountID, from.AddDate(0, 0, -1))
			if err != nil {
				return err
			}
			out.Opening = opening
		}
		running := out.Opening
		for _, p := range v.Postings(accountID, from, to) {
			running += accounts.Signed(acct.Type, p.Debit, p.Credit)
			out.Rows = append(out.Rows, LedgerRow{
				Date:        p.Date,
				Number:      p.Number,
				Description: p.Description,
				Debit:       p.Debit,
				Credit:      p.Credit,
				Running:     running,
			})
		}
		out.Closing = running
		return nil
	})
	if err != nil {
		return AccountLedger{}, err
	}
	return out, nil
}

// Summary returns dashboard totals and up to recent latest entries.
func (e *Engine) Summary(recent int) (Summary, error) {
	var s Summary
	err := e.ledger.View(func(v *journal.View) error {
		accts := v.Accounts()
		s.Accounts = len(accts)
		s.Entries = v.EntryCount()
		for _, a := range accts {
			d, c := v.OwnTotals(a.ID, time.Time{})
			s.TotalDebit += d
			s.TotalCredit += c
		}
		for _, entry := range v.Recent(s.Entries) {
			if entry.NeedsReview {
				s.NeedsReview++
			}
		}
		if recent > 0 {
			s.Recent = v.Recent(recent)
		}
		return nil
	})
	s.Difference = s.TotalDebit - s.TotalCredit
	return s, err
}
