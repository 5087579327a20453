package journal

import (
	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/model"
)

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

// ActiveChecker tests whether an account accepts new postings.
type ActiveChecker interface {
	Active(id string) bool
}

// CheckActive rejects a draft that posts to an inactive account. It applies
// to new entries only; replayed history and reversals may touch accounts
// deactivated since.
func CheckActive(d model.DraftEntry, accounts ActiveChecker) error {
	for i, l := range d.Lines {
		if !accounts.Active(l.AccountID) {
			return apperr.ErrInactiveAccount.
				Withf("line %d: account %s is inactive", i+1, l.AccountID).
				WithDetail("line", i+1)
		}
	}
	return nil
}

// Validate checks a draft before it is numbered. Checks run in a fixed order
// and the first failure is returned:
//
//  1. the draft has at least one line
//  2. every line references a known account
//  3. every line has a known side and a non-negative amount
//  4. neither side total overflows and debits equal credits
//  5. the entry total is positive
//  6. no line carries a zero amount
func Validate(d model.DraftEntry, accounts AccountChecker) error {
	if len(d.Lines) == 0 {
		return apperr.ErrEmptyEntry
	}

	for i, l := range d.Lines {
		if !accounts.Exists(l.AccountID) {
			return apperr.ErrUnknownAccount.
				Withf("line %d: unknown account %q", i+1, l.AccountID).
				WithDetail("line", i+1)
		}
	}

	for i, l := range d.Lines {
		if !l.Type.Valid() {
			return apperr.ErrInvalidLine.
				Withf("line %d: unknown transaction type %q", i+1, l.Type).
				WithDetail("line", i+1)
		}
		if l.Amount < 0 {
			return apperr.ErrInvalidLine.
				Withf("line %d: negative amount %s", i+1, l.Amount).
				WithDetail("line", i+1)
		}
	}

	debit, credit, ok := model.SumLines(d.Lines)
	if !ok {
		return apperr.ErrInvalidLine.Withf("entry total exceeds %s", model.MaxAmount)
	}
	if debit != credit {
		return apperr.ErrUnbalanced.
			Withf("debits (%s) != credits (%s)", debit, credit).
			WithDetail("debit", int64(debit)).
			WithDetail("credit", int64(credit))
	}

	if debit == 0 {
		return apperr.ErrZeroEntry
	}

	for i, l := range d.Lines {
		if l.Amount == 0 {
			return apperr.ErrInvalidLine.
				Withf("line %d: zero amount", i+1).
				WithDetail("line", i+1)
		}
	}
	return nil
}
