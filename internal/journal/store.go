package journal

import (
	"context"

	"github.com/cleared-dev/sanad/internal/model"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

// Store persists accounts and committed entries.
type Store interface {
	// SaveAccount persists a newly created account.
	SaveAccount(ctx context.Context, acct model.Account) error
	// UpdateAccount persists the name, description and active flag of an
	// existing account.
	UpdateAccount(ctx context.Context, acct model.Account) error
	// ReserveEntryNumber durably advances the entry sequence and returns the
	// new number. A reserved number is never handed out again, even if the
	// entry it was reserved for is never appended.
	ReserveEntryNumber(ctx context.Context) (int64, error)
	// AppendEntry persists a committed entry and all its lines atomically.
	AppendEntry(ctx context.Context, entry model.JournalEntry) error
	// LoadAccounts returns every persisted account.
	LoadAccounts(ctx context.Context) ([]model.Account, error)
	// LoadEntries returns every persisted entry ordered by number.
	LoadEntries(ctx context.Context) ([]model.JournalEntry, error)
}
