package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cleared-dev/sanad/internal/model"
)

const dateFormat = "2006-01-02"

// SaveAccount inserts an account row.
func (s *Store) SaveAccount(ctx context.Context, acct model.Account) error {
	var parent any
	if acct.ParentID != "" {
		parent = acct.ParentID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, code, name, type, parent_id, description, inactive, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		acct.ID, acct.Code, acct.Name, string(acct.Type), parent, acct.Description, acct.Inactive,
		acct.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting account %s: %w", acct.Code, err)
	}
	return nil
}

// UpdateAccount rewrites the mutable columns of an account row.
func (s *Store) UpdateAccount(ctx context.Context, acct model.Account) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, description = ?, inactive = ? WHERE id = ?`,
		acct.Name, acct.Description, acct.Inactive, acct.ID)
	if err != nil {
		return fmt.Errorf("updating account %s: %w", acct.Code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating account %s: %w", acct.Code, err)
	}
	if n == 0 {
		return fmt.Errorf("account %s not found", acct.Code)
	}
	return nil
}

// ReserveEntryNumber advances the persisted sequence in its own transaction.
func (s *Store) ReserveEntryNumber(ctx context.Context) (int64, error) {
	var n int64
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE entry_sequence SET value = value + 1 WHERE id = 1`); err != nil {
			return fmt.Errorf("advancing entry sequence: %w", err)
		}
		if err := tx.QueryRowContext(ctx, `SELECT value FROM entry_sequence WHERE id = 1`).Scan(&n); err != nil {
			return fmt.Errorf("reading entry sequence: %w", err)
		}
		return nil
	})
	return n, err
}

// AppendEntry inserts an entry and its lines in one transaction.
func (s *Store) AppendEntry(ctx context.Context, e model.JournalEntry) error {
	return s.transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO journal_entries
			 (id, number, date, description, reference, source, needs_review, raw_input, reversal_of, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Number, e.Date.Format(dateFormat), e.Description, e.Reference, string(e.Source),
			e.NeedsReview, e.RawInput, e.ReversalOf, e.CreatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("inserting entry %d: %w", e.Number, err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO transactions (id, entry_id, line_no, account_id, type, amount, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing line insert: %w", err)
		}
		defer stmt.Close()

		for i, l := range e.Lines {
			if _, err := stmt.ExecContext(ctx, l.ID, e.ID, i, l.AccountID, string(l.Type), int64(l.Amount), l.Description); err != nil {
				return fmt.Errorf("inserting line %d of entry %d: %w", i+1, e.Number, err)
			}
		}
		return nil
	})
}

// LoadAccounts returns every account.
func (s *Store) LoadAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, name, type, COALESCE(parent_id, ''), description, inactive, created_at
		 FROM accounts ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		var typ, created string
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &typ, &a.ParentID, &a.Description, &a.Inactive, &created); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		a.Type = model.AccountType(typ)
		a.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at of account %s: %w", a.Code, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// LoadEntries returns every entry with its lines, ordered by number.
func (s *Store) LoadEntries(ctx context.Context) ([]model.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, number, date, description, reference, source, needs_review, raw_input, reversal_of, created_at
		 FROM journal_entries ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []model.JournalEntry
	byID := make(map[string]int)
	for rows.Next() {
		var e model.JournalEntry
		var day, source, created string
		if err := rows.Scan(&e.ID, &e.Number, &day, &e.Description, &e.Reference, &source,
			&e.NeedsReview, &e.RawInput, &e.ReversalOf, &created); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Source = model.Source(source)
		if e.Date, err = time.Parse(dateFormat, day); err != nil {
			return nil, fmt.Errorf("parsing date of entry %d: %w", e.Number, err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing created_at of entry %d: %w", e.Number, err)
		}
		byID[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := s.db.QueryContext(ctx,
		`SELECT id, entry_id, account_id, type, amount, description
		 FROM transactions ORDER BY entry_id, line_no`)
	if err != nil {
		return nil, fmt.Errorf("querying lines: %w", err)
	}
	defer lines.Close()

	for lines.Next() {
		var l model.Transaction
		var entryID, typ string
		var amount int64
		if err := lines.Scan(&l.ID, &entryID, &l.AccountID, &typ, &amount, &l.Description); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		l.Type = model.Side(typ)
		l.Amount = model.Amount(amount)
		idx, ok := byID[entryID]
		if !ok {
			return nil, fmt.Errorf("line %s references missing entry %s", l.ID, entryID)
		}
		entries[idx].Lines = append(entries[idx].Lines, l)
	}
	return entries, lines.Err()
}
