// Package memstore is an in-memory ledger store for tests and dry runs.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cleared-dev/sanad/internal/model"
)

// Store keeps accounts and entries in memory.
type Store struct {
	mu       sync.Mutex
	accounts []model.Account
	entries  []model.JournalEntry
	seq      int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// SaveAccount stores an account.
func (s *Store) SaveAccount(_ context.Context, acct model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == acct.ID || a.Code == acct.Code {
			return fmt.Errorf("account %s already stored", acct.Code)
		}
	}
	s.accounts = append(s.accounts, acct)
	return nil
}

// UpdateAccount replaces a stored account by ID.
func (s *Store) UpdateAccount(_ context.Context, acct model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.accounts {
		if a.ID == acct.ID {
			s.accounts[i] = acct
			return nil
		}
	}
	return fmt.Errorf("account %s not stored", acct.Code)
}

// ReserveEntryNumber advances the sequence.
func (s *Store) ReserveEntryNumber(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

// AppendEntry stores a committed entry.
func (s *Store) AppendEntry(ctx context.Context, entry model.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Number == entry.Number {
			return fmt.Errorf("entry %d already stored", entry.Number)
		}
	}
	lines := make([]model.Transaction, len(entry.Lines))
	copy(lines, entry.Lines)
	entry.Lines = lines
	s.entries = append(s.entries, entry)
	return nil
}

// LoadAccounts returns stored accounts in insertion order.
func (s *Store) LoadAccounts(context.Context) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

// LoadEntries returns stored entries ordered by number.
func (s *Store) LoadEntries(context.Context) ([]model.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.JournalEntry, len(s.entries))
	copy(out, s.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
