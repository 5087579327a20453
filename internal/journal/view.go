package journal

import (
	"sort"
	"time"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/model"
)

// View is a read-only window onto the ledger, valid only inside Ledger.View.
// A zero time bound means unbounded.
type View struct {
	l *Ledger
}

// Accounts returns every account ordered by code.
func (v *View) Accounts() []model.Account {
	return v.l.accounts.All()
}

// Account returns an account by ID.
func (v *View) Account(accountID string) (model.Account, bool) {
	return v.l.accounts.Get(accountID)
}

// EntryCount returns the number of committed entries.
func (v *View) EntryCount() int {
	return len(v.l.entries)
}

// Recent returns up to n entries, most recently committed first.
func (v *View) Recent(n int) []model.JournalEntry {
	entries := v.l.entries
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]model.JournalEntry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out
}

// Entries returns the entries dated within [from, to] in date order, ties
// broken by number.
func (v *View) Entries(from, to time.Time) []model.JournalEntry {
	var out []model.JournalEntry
	for _, e := range v.l.entries {
		if (!from.IsZero() && e.Date.Before(from)) || (!to.IsZero() && e.Date.After(to)) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// OwnTotals returns the debit and credit sums posted directly to an account
// on or before asOf.
func (v *View) OwnTotals(accountID string, asOf time.Time) (debit, credit model.Amount) {
	t, ok := v.l.accounts.Totals(accountID)
	if !ok {
		return 0, 0
	}
	debit, credit = t.OwnDebit, t.OwnCredit
	if asOf.IsZero() {
		return debit, credit
	}
	for _, p := range v.after(accountID, asOf) {
		debit -= p.Debit
		credit -= p.Credit
	}
	return debit, credit
}

// SubtreeTotals returns the debit and credit sums of an account and all its
// descendants on or before asOf.
func (v *View) SubtreeTotals(accountID string, asOf time.Time) (debit, credit model.Amount) {
	t, ok := v.l.accounts.Totals(accountID)
	if !ok {
		return 0, 0
	}
	debit, credit = t.SubtreeDebit, t.SubtreeCredit
	if asOf.IsZero() {
		return debit, credit
	}
	for _, id := range v.l.accounts.Subtree(accountID) {
		for _, p := range v.after(id, asOf) {
			debit -= p.Debit
			credit -= p.Credit
		}
	}
	return debit, credit
}

// BalanceAsOf returns the subtree balance of an account, signed by its normal
// side, counting entries dated on or before asOf. It starts from the running
// aggregate and subtracts later postings rather than rescanning the ledger.
func (v *View) BalanceAsOf(accountID string, asOf time.Time) (model.Amount, error) {
	acct, ok := v.l.accounts.Get(accountID)
	if !ok {
		return 0, apperr.ErrUnknownAccount.Withf("account %s not found", accountID)
	}
	debit, credit := v.SubtreeTotals(accountID, asOf)
	return accounts.Signed(acct.Type, debit, credit), nil
}

// Postings returns the postings of an account's whole subtree dated within
// [from, to], ordered by date then entry number.
func (v *View) Postings(accountID string, from, to time.Time) []Posting {
	var out []Posting
	for _, id := range v.l.accounts.Subtree(accountID) {
		for _, p := range v.l.postings[id] {
			if !from.IsZero() && p.Date.Before(from) {
				continue
			}
			if !to.IsZero() && p.Date.After(to) {
				continue
			}
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].before(out[j]) })
	return out
}

// after returns an account's own postings dated strictly after t.
func (v *View) after(accountID string, t time.Time) []Posting {
	list := v.l.postings[accountID]
	i := sort.Search(len(list), func(i int) bool { return list[i].Date.After(t) })
	return list[i:]
}
