package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/sanad/internal/app"
	"github.com/cleared-dev/sanad/internal/config"
	"github.com/cleared-dev/sanad/internal/id"
	"github.com/cleared-dev/sanad/internal/logger"
	"github.com/cleared-dev/sanad/internal/model"
)

// openApp opens the ledger in --dir, logging at the --log-level flag or the
// level in sanad.yaml.
func openApp(cmd *cobra.Command, opts *rootOptions) (*app.App, error) {
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadDir(root)
	if err != nil {
		return nil, err
	}
	level := opts.logLevel
	if level == "" {
		level = cfg.Log.Level
	}
	log, err := logger.FromConfig(level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return app.Open(cmd.Context(), root, log)
}

func cmdLogger(cmd *cobra.Command) zerolog.Logger {
	return logger.FromContext(cmd.Context())
}

// parseDate parses an optional YYYY-MM-DD flag. Empty is the zero time.
func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", flag, value)
	}
	return t, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func printEntry(w io.Writer, e model.JournalEntry, lookup func(string) model.Account) {
	fmt.Fprintf(w, "%s  %s  %s", id.FormatEntryNumber(e.Number), e.Date.Format(time.DateOnly), e.Description)
	if e.NeedsReview {
		fmt.Fprint(w, "  [needs review]")
	}
	fmt.Fprintln(w)
	for _, line := range e.Lines {
		acct := lookup(line.AccountID)
		debit, credit := line.DebitCredit()
		fmt.Fprintf(w, "    %-6s %-24s %12s %12s\n", acct.Code, acct.Name, blankZero(debit), blankZero(credit))
	}
}

func printDraft(w io.Writer, d model.DraftEntry, lookup func(string) model.Account) {
	fmt.Fprintf(w, "draft  %s  %s", d.Date.Format(time.DateOnly), d.Description)
	if d.NeedsReview {
		fmt.Fprint(w, "  [needs review]")
	}
	fmt.Fprintln(w)
	for _, line := range d.Lines {
		acct := lookup(line.AccountID)
		debit, credit := line.DebitCredit()
		fmt.Fprintf(w, "    %-6s %-24s %12s %12s\n", acct.Code, acct.Name, blankZero(debit), blankZero(credit))
	}
}

func blankZero(a model.Amount) string {
	if a == 0 {
		return ""
	}
	return a.String()
}

func accountLookup(a *app.App) func(string) model.Account {
	byID := make(map[string]model.Account)
	for _, acct := range a.ListAccounts() {
		byID[acct.ID] = acct
	}
	return func(id string) model.Account {
		if acct, ok := byID[id]; ok {
			return acct
		}
		return model.Account{Code: "?", Name: id}
	}
}
