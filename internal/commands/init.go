package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sanad/internal/app"
)

func newInitCommand() *cobra.Command {
	var opts app.InitOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cmd.Flags().GetString("dir")
			if err != nil {
				return err
			}
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd, absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.BusinessName, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.Profile, "profile", "retail", "default chart of accounts profile")
	cmd.Flags().StringVar(&opts.ChartPath, "chart", "", "chart of accounts CSV to use instead of the profile")
	cmd.Flags().StringVar(&opts.Storage, "storage", "", "storage driver: sqlite or memory")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts app.InitOptions) error {
	a, err := app.Init(cmd.Context(), dir, opts, cmdLogger(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledger at %s with %d accounts\n", dir, len(a.ListAccounts()))
	return nil
}
