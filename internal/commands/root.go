package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sanad/internal/buildinfo"
	"github.com/cleared-dev/sanad/internal/logger"
)

type rootOptions struct {
	dir      string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "sanad",
		Short:   "Double-entry bookkeeping with voice and receipt intake",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.FromConfig(opts.logLevel, "console")
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "ledger directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides sanad.yaml)")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountCommand(opts),
		newEntryCommand(opts),
		newVoiceCommand(opts),
		newReceiptCommand(opts),
		newReportCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
	)

	return rootCmd
}
