package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sanad/internal/id"
)

func newReportCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Trial balance, account ledgers and summaries",
	}
	cmd.AddCommand(
		newTrialBalanceCommand(root),
		newLedgerCommand(root),
		newSummaryCommand(root),
	)
	return cmd
}

func newTrialBalanceCommand(root *rootOptions) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Show the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate("as-of", asOf)
			if err != nil {
				return err
			}
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			tb, err := a.TrialBalance(date)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Trial balance as of %s\n", formatDate(tb.AsOf))
			fmt.Fprintln(tw, "CODE\tNAME\tDEBIT\tCREDIT\tBALANCE")
			for _, r := range tb.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Code, r.Name, r.Debit, r.Credit, r.Balance)
			}
			fmt.Fprintf(tw, "\tTOTAL\t%s\t%s\t\n", tb.TotalDebit, tb.TotalCredit)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "as of YYYY-MM-DD (default all time)")
	return cmd
}

func newLedgerCommand(root *rootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "ledger <code>",
		Short: "Show an account's ledger with running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDate("from", from)
			if err != nil {
				return err
			}
			end, err := parseDate("to", to)
			if err != nil {
				return err
			}
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			acct, err := a.AccountByCode(args[0])
			if err != nil {
				return err
			}
			lg, err := a.Ledger(acct.ID, start, end)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "%s %s  %s .. %s\n", acct.Code, acct.Name, formatDate(lg.From), formatDate(lg.To))
			fmt.Fprintln(tw, "DATE\tENTRY\tDESCRIPTION\tDEBIT\tCREDIT\tBALANCE")
			fmt.Fprintf(tw, "\t\topening\t\t\t%s\n", lg.Opening)
			for _, r := range lg.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					formatDate(r.Date), id.FormatEntryNumber(r.Number), r.Description,
					blankZero(r.Debit), blankZero(r.Credit), r.Running)
			}
			fmt.Fprintf(tw, "\t\tclosing\t\t\t%s\n", lg.Closing)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day YYYY-MM-DD")
	return cmd
}

func newSummaryCommand(root *rootOptions) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show ledger totals and recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.Summary(recent)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "business:     %s\n", a.Config().Business.Name)
			fmt.Fprintf(w, "accounts:     %d\n", s.Accounts)
			fmt.Fprintf(w, "entries:      %d (%d need review)\n", s.Entries, s.NeedsReview)
			fmt.Fprintf(w, "total debit:  %s\n", s.TotalDebit)
			fmt.Fprintf(w, "total credit: %s\n", s.TotalCredit)
			fmt.Fprintf(w, "difference:   %s\n", s.Difference)
			if len(s.Recent) > 0 {
				fmt.Fprintln(w, "recent:")
				lookup := accountLookup(a)
				for _, e := range s.Recent {
					printEntry(w, e, lookup)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 5, "number of recent entries to show")
	return cmd
}
