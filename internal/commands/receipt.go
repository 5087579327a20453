package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sanad/internal/app"
	"github.com/cleared-dev/sanad/internal/receipt"
)

func newReceiptCommand(root *rootOptions) *cobra.Command {
	var (
		amount, date, vendor, textFile string
		confirm                        bool
	)

	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Normalize OCR output from a receipt",
		Long: "Normalize OCR fields from a receipt. Fields left empty are searched for in\n" +
			"the full text given by --text-file. A complete receipt is posted as a cash\n" +
			"expense only with --confirm.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]string{
				receipt.FieldAmount: amount,
				receipt.FieldDate:   date,
				receipt.FieldVendor: vendor,
			}
			if textFile != "" {
				data, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("reading receipt text: %w", err)
				}
				values[receipt.FieldText] = string(data)
			}

			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.NormalizeReceipt(cmd.Context(), receipt.FromStrings(values), confirm)
			w := cmd.OutOrStdout()
			if err != nil && !app.IsPartial(err) {
				return err
			}

			fmt.Fprintf(w, "amount: %s\n", orDash(out.Amount.String(), out.Amount != 0))
			fmt.Fprintf(w, "date:   %s\n", orDash(out.Date, out.Date != ""))
			fmt.Fprintf(w, "vendor: %s\n", orDash(out.Vendor, out.Vendor != ""))
			if err != nil {
				fmt.Fprintf(w, "incomplete: missing %s\n", strings.Join(out.Missing, ", "))
				return err
			}
			if out.Entry != nil {
				printEntry(w, *out.Entry, accountLookup(a))
			} else {
				fmt.Fprintln(w, "not posted; rerun with --confirm to post")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "OCR amount field")
	cmd.Flags().StringVar(&date, "date", "", "OCR date field")
	cmd.Flags().StringVar(&vendor, "vendor", "", "OCR vendor field")
	cmd.Flags().StringVar(&textFile, "text-file", "", "file with the full OCR text")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "post a complete receipt as a cash expense")

	return cmd
}

func orDash(s string, ok bool) string {
	if !ok {
		return "-"
	}
	return s
}
