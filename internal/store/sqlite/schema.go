package sqlite

// Schema defines the SQL statements to create the ledger tables.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id          TEXT PRIMARY KEY,
    code        TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    type        TEXT NOT NULL,
    parent_id   TEXT REFERENCES accounts(id),
    description TEXT NOT NULL DEFAULT '',
    inactive    INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL
);

-- Single-row high-water mark for entry numbers. Numbers reserved for
-- entries that were never appended are not reused.
CREATE TABLE IF NOT EXISTS entry_sequence (
    id    INTEGER PRIMARY KEY CHECK (id = 1),
    value INTEGER NOT NULL
);
INSERT OR IGNORE INTO entry_sequence (id, value) VALUES (1, 0);

CREATE TABLE IF NOT EXISTS journal_entries (
    id           TEXT PRIMARY KEY,
    number       INTEGER NOT NULL UNIQUE,
    date         TEXT NOT NULL,           -- YYYY-MM-DD
    description  TEXT NOT NULL DEFAULT '',
    reference    TEXT NOT NULL DEFAULT '',
    source       TEXT NOT NULL,           -- manual, voice or ocr
    needs_review INTEGER NOT NULL DEFAULT 0,
    raw_input    TEXT NOT NULL DEFAULT '',
    reversal_of  INTEGER NOT NULL DEFAULT 0,
    created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_date
    ON journal_entries(date);

CREATE TABLE IF NOT EXISTS transactions (
    id          TEXT PRIMARY KEY,
    entry_id    TEXT NOT NULL REFERENCES journal_entries(id),
    line_no     INTEGER NOT NULL,
    account_id  TEXT NOT NULL REFERENCES accounts(id),
    type        TEXT NOT NULL CHECK (type IN ('debit', 'credit')),
    amount      INTEGER NOT NULL CHECK (amount >= 0),
    description TEXT NOT NULL DEFAULT '',
    UNIQUE(entry_id, line_no)
);

CREATE INDEX IF NOT EXISTS idx_transactions_account
    ON transactions(account_id);
`

func (s *Store) initializeSchema() error {
	_, err := s.db.Exec(Schema)
	return err
}
