package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sanad/internal/app"
	"github.com/cleared-dev/sanad/internal/id"
	"github.com/cleared-dev/sanad/internal/model"
)

func newEntryCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Journal entry operations",
	}
	cmd.AddCommand(
		newEntryCommitCommand(root),
		newEntryReverseCommand(root),
		newEntryShowCommand(root),
		newEntryListCommand(root),
	)
	return cmd
}

func newEntryCommitCommand(root *rootOptions) *cobra.Command {
	var (
		date, description, reference string
		lines                        []string
	)

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit a manual journal entry",
		Long: "Commit a manual journal entry. Each --line is CODE:SIDE:AMOUNT where SIDE\n" +
			"is debit (d) or credit (c) and AMOUNT is in minor units.",
		Example: "  sanad entry commit --desc \"آورده نقدی\" --line 111:d:1000000 --line 31:c:1000000",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseDate("date", date)
			if err != nil {
				return err
			}
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			draft := model.DraftEntry{
				Date:        when,
				Description: description,
				Reference:   reference,
				Source:      model.SourceManual,
			}
			for i, raw := range lines {
				line, err := parseLine(a, raw)
				if err != nil {
					return fmt.Errorf("line %d: %w", i+1, err)
				}
				draft.Lines = append(draft.Lines, line)
			}

			entry, err := a.CommitEntry(cmd.Context(), draft)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), entry, accountLookup(a))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&description, "desc", "", "description")
	cmd.Flags().StringVar(&reference, "ref", "", "external reference")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "CODE:SIDE:AMOUNT (repeatable)")

	return cmd
}

// parseLine parses CODE:SIDE:AMOUNT into a transaction line.
func parseLine(a *app.App, raw string) (model.Transaction, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return model.Transaction{}, fmt.Errorf("want CODE:SIDE:AMOUNT, got %q", raw)
	}
	acct, err := a.AccountByCode(parts[0])
	if err != nil {
		return model.Transaction{}, err
	}

	var side model.Side
	switch strings.ToLower(parts[1]) {
	case "d", "debit":
		side = model.Debit
	case "c", "credit":
		side = model.Credit
	default:
		return model.Transaction{}, fmt.Errorf("side %q is not debit or credit", parts[1])
	}

	amount, err := model.ParseAmount(parts[2])
	if err != nil {
		return model.Transaction{}, err
	}
	return model.Transaction{AccountID: acct.ID, Type: side, Amount: amount}, nil
}

func newEntryReverseCommand(root *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "reverse <entry-number>",
		Short: "Post the reversal of a committed entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := id.ParseEntryNumber(args[0])
			if err != nil {
				return err
			}
			when, err := parseDate("date", date)
			if err != nil {
				return err
			}
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := a.Reverse(cmd.Context(), number, when)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), entry, accountLookup(a))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reversal date YYYY-MM-DD (default today)")
	return cmd
}

func newEntryShowCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <entry-number>",
		Short: "Show a committed entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := id.ParseEntryNumber(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := a.Entry(number)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), entry, accountLookup(a))
			if entry.RawInput != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "    input: %s\n", entry.RawInput)
			}
			return nil
		},
	}
}

func newEntryListCommand(root *rootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List committed entries by date",
		Args:  cobra.NoArgs,
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

			entries, err := a.ListEntries(start, end)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ENTRY\tDATE\tAMOUNT\tSOURCE\tDESCRIPTION")
			for _, e := range entries {
				debit, _ := e.Totals()
				desc := e.Description
				if e.NeedsReview {
					desc += " [needs review]"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					id.FormatEntryNumber(e.Number), e.Date.Format(time.DateOnly), debit, e.Source, desc)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD")
	return cmd
}
