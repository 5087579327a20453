package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newVoiceCommand(root *rootOptions) *cobra.Command {
	var commit bool

	cmd := &cobra.Command{
		Use:   "voice <transcript>",
		Short: "Turn a transcribed spoken command into a journal entry",
		Long: "Resolve a transcribed command such as\n" +
			"  \"پرداخت ۵۰۰ هزار تومان به علی‌آقا بابت خرید کالا\"\n" +
			"into a draft entry. The draft is only committed with --commit.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.ResolveVoiceCommand(cmd.Context(), strings.Join(args, " "), commit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.PartyQuery != "" {
				if out.Matched {
					fmt.Fprintf(w, "counterparty %q -> %s %s (%.2f)\n",
						out.PartyQuery, out.Counterparty.Code, out.Counterparty.Name, out.Counterparty.Score)
				} else {
					fmt.Fprintf(w, "counterparty %q not matched; posted to suspense\n", out.PartyQuery)
				}
			}
			if out.Entry != nil {
				printEntry(w, *out.Entry, accountLookup(a))
				return nil
			}
			printDraft(w, out.Draft, accountLookup(a))
			fmt.Fprintln(w, "not committed; rerun with --commit to post")
			return nil
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "commit the resolved entry")
	return cmd
}
