package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sanad/internal/id"
)

func newImportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Commit transcript (.txt) and journal (.csv) files from import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			sum, err := a.ImportDir(cmd.Context())
			w := cmd.OutOrStdout()
			for _, n := range sum.Committed {
				fmt.Fprintf(w, "committed %s\n", id.FormatEntryNumber(n))
			}
			for _, f := range sum.Failed {
				fmt.Fprintf(w, "failed %s:%d: %v\n", f.File, f.Line, f.Err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d files, %d committed, %d failed\n", len(sum.Files), len(sum.Committed), len(sum.Failed))
			return nil
		},
	}
}
