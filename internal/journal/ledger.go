package journal

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/id"
	"github.com/cleared-dev/sanad/internal/model"
)

// Posting is one committed line as seen from the account it touches.
type Posting struct {
	Date        time.Time
	Number      int64
	EntryID     string
	AccountID   string
	Description string
	Debit       model.Amount
	Credit      model.Amount
}

func (p Posting) before(q Posting) bool {
	if !p.Date.Equal(q.Date) {
		return p.Date.Before(q.Date)
	}
	return p.Number < q.Number
}

// Ledger is the posting engine. Commits are serialized by a single lock and
// readers see either all or none of an entry.
type Ledger struct {
	mu       sync.RWMutex
	accounts *accounts.Registry
	store    Store
	log      zerolog.Logger
	now      func() time.Time

	entries  []model.JournalEntry
	byNumber map[int64]int
	postings map[string][]Posting // per account, ordered by date then number
	reversed map[int64]int64      // original number -> reversing number
}

// NewLedger creates a Ledger over a registry and store.
func NewLedger(registry *accounts.Registry, store Store, log zerolog.Logger) *Ledger {
	return &Ledger{
		accounts: registry,
		store:    store,
		log:      log,
		now:      time.Now,
		byNumber: make(map[int64]int),
		postings: make(map[string][]Posting),
		reversed: make(map[int64]int64),
	}
}

// WithClock replaces the ledger's time source.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Accounts returns the registry the ledger posts to.
func (l *Ledger) Accounts() *accounts.Registry {
	return l.accounts
}

// Commit validates a draft, assigns the next entry number, persists it and
// applies it to account balances. Drafts posting to inactive accounts are
// rejected. Validation failures consume no number.
// A store failure after the number is reserved burns that number and leaves
// the ledger unchanged.
func (l *Ledger) Commit(ctx context.Context, d model.DraftEntry) (model.JournalEntry, error) {
	if err := Validate(d, l.accounts); err != nil {
		return model.JournalEntry{}, err
	}
	if err := CheckActive(d, l.accounts); err != nil {
		return model.JournalEntry{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commitLocked(ctx, d, 0)
}

func (l *Ledger) commitLocked(ctx context.Context, d model.DraftEntry, reversalOf int64) (model.JournalEntry, error) {
	if err := l.accounts.CheckApply(d.Lines); err != nil {
		return model.JournalEntry{}, err
	}

	number, err := l.store.ReserveEntryNumber(ctx)
	if err != nil {
		l.log.Error().Err(err).Msg("reserving entry number")
		return model.JournalEntry{}, apperr.ErrCommitFailed.Wrap("reserving entry number", err)
	}

	now := l.now().UTC()
	date := d.Date
	if date.IsZero() {
		date = now
	}

	lines := make([]model.Transaction, len(d.Lines))
	for i, line := range d.Lines {
		line.ID = id.New()
		lines[i] = line
	}

	entry := model.JournalEntry{
		ID:          id.New(),
		Number:      number,
		Date:        model.Day(date),
		Description: d.Description,
		Reference:   d.Reference,
		Source:      d.Source,
		Lines:       lines,
		NeedsReview: d.NeedsReview,
		RawInput:    d.RawInput,
		ReversalOf:  reversalOf,
		CreatedAt:   now,
	}
	if entry.Source == "" {
		entry.Source = model.SourceManual
	}

	if err := l.store.AppendEntry(ctx, entry); err != nil {
		l.log.Error().Err(err).
			Str("entry", id.FormatEntryNumber(number)).
			Msg("persisting entry failed, number burned")
		return model.JournalEntry{}, apperr.ErrCommitFailed.Wrap("persisting "+id.FormatEntryNumber(number), err)
	}

	if err := l.indexLocked(entry); err != nil {
		return model.JournalEntry{}, err
	}

	debit, _ := entry.Totals()
	l.log.Info().
		Str("entry", id.FormatEntryNumber(number)).
		Str("source", string(entry.Source)).
		Int("lines", len(entry.Lines)).
		Int64("amount", int64(debit)).
		Bool("needs_review", entry.NeedsReview).
		Msg("entry committed")
	return entry, nil
}

func (l *Ledger) indexLocked(entry model.JournalEntry) error {
	if err := l.accounts.Apply(entry.Lines); err != nil {
		return apperr.ErrInconsistentAggregate.Wrap("applying "+id.FormatEntryNumber(entry.Number), err)
	}

	l.byNumber[entry.Number] = len(l.entries)
	l.entries = append(l.entries, entry)
	if entry.ReversalOf != 0 {
		l.reversed[entry.ReversalOf] = entry.Number
	}

	for _, line := range entry.Lines {
		debit, credit := line.DebitCredit()
		desc := line.Description
		if desc == "" {
			desc = entry.Description
		}
		p := Posting{
			Date:        entry.Date,
			Number:      entry.Number,
			EntryID:     entry.ID,
			AccountID:   line.AccountID,
			Description: desc,
			Debit:       debit,
			Credit:      credit,
		}
		list := l.postings[line.AccountID]
		i := sort.Search(len(list), func(i int) bool { return p.before(list[i]) })
		list = append(list, Posting{})
		copy(list[i+1:], list[i:])
		list[i] = p
		l.postings[line.AccountID] = list
	}
	return nil
}

// Replay loads previously persisted entries into memory without writing to
// the store. Entries must be balanced and reference known accounts.
func (l *Ledger) Replay(entries []model.JournalEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range entries {
		draft := model.DraftEntry{Lines: e.Lines}
		if err := Validate(draft, l.accounts); err != nil {
			return apperr.ErrInconsistentAggregate.Wrap("replaying "+id.FormatEntryNumber(e.Number), err)
		}
		if _, dup := l.byNumber[e.Number]; dup {
			return apperr.ErrInconsistentAggregate.Withf("duplicate entry number %d", e.Number)
		}
		if err := l.indexLocked(e); err != nil {
			return err
		}
	}
	l.log.Debug().Int("entries", len(entries)).Msg("ledger replayed")
	return nil
}

// Reverse posts a new entry that mirrors an existing one, side for side.
// Committed entries are never edited; this is how they are corrected.
func (l *Ledger) Reverse(ctx context.Context, number int64, date time.Time) (model.JournalEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.byNumber[number]
	if !ok {
		return model.JournalEntry{}, apperr.ErrEntryNotFound.Withf("entry %s not found", id.FormatEntryNumber(number))
	}
	if by, done := l.reversed[number]; done {
		return model.JournalEntry{}, apperr.ErrAlreadyReversed.Withf("entry %s already reversed by %s",
			id.FormatEntryNumber(number), id.FormatEntryNumber(by))
	}

	orig := l.entries[idx]
	lines := make([]model.Transaction, len(orig.Lines))
	for i, line := range orig.Lines {
		side := model.Credit
		if line.Type == model.Credit {
			side = model.Debit
		}
		lines[i] = model.Transaction{
			AccountID:   line.AccountID,
			Type:        side,
			Amount:      line.Amount,
			Description: line.Description,
		}
	}
	draft := model.DraftEntry{
		Date:        date,
		Description: fmt.Sprintf("برگشت سند %s", id.FormatEntryNumber(number)),
		Reference:   id.FormatEntryNumber(number),
		Source:      model.SourceManual,
		Lines:       lines,
	}
	if err := Validate(draft, l.accounts); err != nil {
		return model.JournalEntry{}, err
	}
	return l.commitLocked(ctx, draft, number)
}

// Entry returns a committed entry by number.
func (l *Ledger) Entry(number int64) (model.JournalEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.byNumber[number]
	if !ok {
		return model.JournalEntry{}, false
	}
	return l.entries[idx], true
}

// Entries returns all committed entries in commit order.
func (l *Ledger) Entries() []model.JournalEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.JournalEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// BalanceAsOf returns an account's subtree balance including only entries
// dated on or before asOf.
func (l *Ledger) BalanceAsOf(accountID string, asOf time.Time) (model.Amount, error) {
	var bal model.Amount
	err := l.View(func(v *View) error {
		var err error
		bal, err = v.BalanceAsOf(accountID, asOf)
		return err
	})
	return bal, err
}

// View runs fn against a consistent read-only view of the ledger. No commit
// can interleave with fn. fn must not call back into the Ledger.
func (l *Ledger) View(fn func(v *View) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn(&View{l: l})
}
