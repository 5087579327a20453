package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/id"
	"github.com/cleared-dev/sanad/internal/intakelog"
	"github.com/cleared-dev/sanad/internal/journal"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/receipt"
	"github.com/cleared-dev/sanad/internal/report"
	"github.com/cleared-dev/sanad/internal/resolver"
)

// CreateAccount adds an account to the chart and persists it.
func (a *App) CreateAccount(ctx context.Context, p accounts.CreateParams) (model.Account, error) {
	acct, err := a.registry.Create(p, a.persistAccount(ctx))
	if err != nil {
		return model.Account{}, err
	}
	a.log.Info().Str("code", acct.Code).Str("type", string(acct.Type)).Msg("account created")
	return acct, nil
}

// UpdateAccount renames an account or changes its description.
func (a *App) UpdateAccount(ctx context.Context, accountID string, p accounts.UpdateParams) (model.Account, error) {
	acct, err := a.registry.Update(accountID, p, a.updateAccount(ctx))
	if err != nil {
		return model.Account{}, err
	}
	a.log.Info().Str("code", acct.Code).Msg("account updated")
	return acct, nil
}

// DeactivateAccount stops an account from taking new postings. Accounts the
// configuration posts to cannot be deactivated.
func (a *App) DeactivateAccount(ctx context.Context, accountID string) (model.Account, error) {
	acct, ok := a.registry.Get(accountID)
	if !ok {
		return model.Account{}, apperr.ErrUnknownAccount.Withf("account %s not found", accountID)
	}
	l := a.cfg.Ledger
	for _, code := range []string{l.CashAccount, l.SuspenseAccount, l.DefaultExpenseAccount, l.DefaultRevenueAccount} {
		if code != "" && code == acct.Code {
			return model.Account{}, apperr.ErrInvalidAccount.Withf("account %s is used by the ledger configuration", acct.Code)
		}
	}

	acct, err := a.registry.Deactivate(accountID, a.updateAccount(ctx))
	if err != nil {
		return model.Account{}, err
	}
	a.log.Info().Str("code", acct.Code).Msg("account deactivated")
	return acct, nil
}

// ListAccounts returns the chart ordered by code.
func (a *App) ListAccounts() []model.Account {
	return a.registry.All()
}

// AccountByCode looks an account up by code.
func (a *App) AccountByCode(code string) (model.Account, error) {
	acct, ok := a.registry.GetByCode(code)
	if !ok {
		return model.Account{}, apperr.ErrUnknownAccount.Withf("no account with code %s", code)
	}
	return acct, nil
}

// CommitEntry validates and commits a draft.
func (a *App) CommitEntry(ctx context.Context, d model.DraftEntry) (model.JournalEntry, error) {
	return a.ledger.Commit(ctx, d)
}

// VoiceOutcome is a resolved command and, when committed, its entry.
type VoiceOutcome struct {
	resolver.Result
	Entry *model.JournalEntry
}

// ResolveVoiceCommand resolves a transcript into a draft and commits it when
// commit is set. Every attempt is written to the intake log.
func (a *App) ResolveVoiceCommand(ctx context.Context, transcript string, commit bool) (VoiceOutcome, error) {
	res, err := a.resolver.Resolve(transcript)
	if err != nil {
		a.recordIntake(model.SourceVoice, transcript, intakelog.OutcomeRejected, 0, err.Error())
		a.log.Info().Str("code", apperr.CodeOf(err)).Msg("voice command rejected")
		return VoiceOutcome{}, err
	}

	out := VoiceOutcome{Result: res}
	detail := res.Draft.Description
	if res.Draft.NeedsReview {
		detail = "needs review: " + res.PartyQuery
	}
	if !commit {
		a.recordIntake(model.SourceVoice, transcript, intakelog.OutcomeResolved, 0, detail)
		return out, nil
	}

	entry, err := a.ledger.Commit(ctx, res.Draft)
	if err != nil {
		a.recordIntake(model.SourceVoice, transcript, intakelog.OutcomeRejected, 0, err.Error())
		return out, err
	}
	a.recordIntake(model.SourceVoice, transcript, intakelog.OutcomeCommitted, entry.Number, detail)
	out.Entry = &entry
	return out, nil
}

// ReceiptOutcome is a normalized receipt and, when posted, its entry.
type ReceiptOutcome struct {
	receipt.Result
	Entry *model.JournalEntry
}

// NormalizeReceipt normalizes OCR fields. A receipt missing its amount or
// date returns the partial result together with ErrIncompleteReceipt. A
// complete receipt is posted as a cash expense only when post is set.
func (a *App) NormalizeReceipt(ctx context.Context, fields receipt.Fields, post bool) (ReceiptOutcome, error) {
	res := a.receipts.Normalize(fields)
	out := ReceiptOutcome{Result: res}
	input := res.ExtractedText
	if input == "" {
		input = summarizeFields(fields)
	}

	if err := res.Err(); err != nil {
		a.recordIntake(model.SourceOCR, input, intakelog.OutcomePartial, 0, err.Error())
		return out, err
	}
	if !post {
		a.recordIntake(model.SourceOCR, input, intakelog.OutcomeResolved, 0, res.Vendor)
		return out, nil
	}

	expense, err := a.AccountByCode(a.cfg.Ledger.DefaultExpenseAccount)
	if err != nil {
		return out, err
	}
	cash, err := a.AccountByCode(a.cfg.Ledger.CashAccount)
	if err != nil {
		return out, err
	}
	draft, err := res.Draft(receipt.DraftParams{
		ExpenseAccountID: expense.ID,
		CashAccountID:    cash.ID,
		Date:             a.now(),
	})
	if err != nil {
		return out, err
	}
	entry, err := a.ledger.Commit(ctx, draft)
	if err != nil {
		a.recordIntake(model.SourceOCR, input, intakelog.OutcomeRejected, 0, err.Error())
		return out, err
	}
	a.recordIntake(model.SourceOCR, input, intakelog.OutcomeCommitted, entry.Number, res.Vendor)
	out.Entry = &entry
	return out, nil
}

// Reverse posts the mirror image of a committed entry.
func (a *App) Reverse(ctx context.Context, number int64, date time.Time) (model.JournalEntry, error) {
	return a.ledger.Reverse(ctx, number, date)
}

// Balance returns an account's subtree balance as of a date, signed by its
// normal side. A zero date means all time.
func (a *App) Balance(accountID string, asOf time.Time) (model.Amount, error) {
	if !asOf.IsZero() {
		asOf = model.Day(asOf)
	}
	return a.ledger.BalanceAsOf(accountID, asOf)
}

// TrialBalance returns the trial balance as of a date.
func (a *App) TrialBalance(asOf time.Time) (report.TrialBalance, error) {
	tb, err := a.reports.TrialBalance(asOf)
	if err != nil && apperr.KindOf(err) == apperr.KindConsistency {
		a.log.Error().Err(err).Msg("trial balance self-check failed")
	}
	return tb, err
}

// Ledger returns an account's ledger over [from, to].
func (a *App) Ledger(accountID string, from, to time.Time) (report.AccountLedger, error) {
	return a.reports.Ledger(accountID, from, to)
}

// Summary returns dashboard totals with the latest recent entries.
func (a *App) Summary(recent int) (report.Summary, error) {
	return a.reports.Summary(recent)
}

// Entry returns a committed entry by number.
func (a *App) Entry(number int64) (model.JournalEntry, error) {
	e, ok := a.ledger.Entry(number)
	if !ok {
		return model.JournalEntry{}, apperr.ErrEntryNotFound.Withf("%s not found", id.FormatEntryNumber(number))
	}
	return e, nil
}

// ListEntries returns the entries dated within [from, to] in date order.
// Zero bounds are open.
func (a *App) ListEntries(from, to time.Time) ([]model.JournalEntry, error) {
	if !from.IsZero() {
		from = model.Day(from)
	}
	if !to.IsZero() {
		to = model.Day(to)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, apperr.ErrInvalidRange.
			Withf("from %s is after to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	var out []model.JournalEntry
	err := a.ledger.View(func(v *journal.View) error {
		out = v.Entries(from, to)
		return nil
	})
	return out, err
}

// ExportJournal writes every committed entry as CSV.
func (a *App) ExportJournal(w io.Writer) error {
	return journal.WriteEntries(w, a.ledger.Entries(), a.registry)
}

// IntakeLog returns every recorded intake attempt.
func (a *App) IntakeLog() ([]intakelog.Entry, error) {
	return a.intake.Read()
}

func (a *App) recordIntake(source model.Source, input string, outcome intakelog.Outcome, number int64, detail string) {
	err := a.intake.Record(intakelog.Entry{
		Source:      string(source),
		Input:       input,
		Outcome:     outcome,
		EntryNumber: number,
		Detail:      detail,
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("intake log write failed")
	}
}

func summarizeFields(fields receipt.Fields) string {
	var parts []string
	for _, name := range []string{receipt.FieldAmount, receipt.FieldDate, receipt.FieldVendor} {
		if c := fields[name]; len(c) > 0 {
			parts = append(parts, name+"="+c[0].Text)
		}
	}
	return strings.Join(parts, "; ")
}

// IsPartial reports whether err is a partial-extraction error whose outcome
// still carries usable fields.
func IsPartial(err error) bool {
	return errors.Is(err, apperr.ErrIncompleteReceipt)
}
