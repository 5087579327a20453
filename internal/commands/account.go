package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/model"
)

func newAccountCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Chart of accounts operations",
	}
	cmd.AddCommand(
		newAccountCreateCommand(root),
		newAccountListCommand(root),
		newAccountBalanceCommand(root),
		newAccountUpdateCommand(root),
		newAccountDeactivateCommand(root),
	)
	return cmd
}

func newAccountCreateCommand(root *rootOptions) *cobra.Command {
	var (
		name, accountType, parentCode string
		code, description             string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			p := accounts.CreateParams{
				Name:        name,
				Type:        model.AccountType(accountType),
				Code:        code,
				Description: description,
			}
			if parentCode != "" {
				parent, err := a.AccountByCode(parentCode)
				if err != nil {
					return err
				}
				p.ParentID = parent.ID
				if accountType == "" {
					p.Type = parent.Type
				}
			}

			acct, err := a.CreateAccount(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", acct.Code, acct.Name, acct.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&accountType, "type", "", "account type; defaults to the parent's type")
	cmd.Flags().StringVar(&parentCode, "parent", "", "parent account code")
	cmd.Flags().StringVar(&code, "code", "", "explicit account code")
	cmd.Flags().StringVar(&description, "description", "", "description")

	return cmd
}

func newAccountListCommand(root *rootOptions) *cobra.Command {
	var accountType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts by code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tSTATUS")
			for _, acct := range a.ListAccounts() {
				if accountType != "" && string(acct.Type) != accountType {
					continue
				}
				status := "active"
				if acct.Inactive {
					status = "inactive"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", acct.Code, acct.Name, acct.Type, status)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "", "only list accounts of this type")
	return cmd
}

func newAccountBalanceCommand(root *rootOptions) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance <code>",
		Short: "Show an account's balance including sub-accounts",
		Args:  cobra.ExactArgs(1),
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

			acct, err := a.AccountByCode(args[0])
			if err != nil {
				return err
			}
			bal, err := a.Balance(acct.ID, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", acct.Code, acct.Name, bal)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "balance as of YYYY-MM-DD")
	return cmd
}

func newAccountUpdateCommand(root *rootOptions) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update <code>",
		Short: "Rename an account or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p accounts.UpdateParams
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("description") {
				p.Description = &description
			}
			if p.Name == nil && p.Description == nil {
				return fmt.Errorf("nothing to update: pass --name or --description")
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
			acct, err = a.UpdateAccount(cmd.Context(), acct.ID, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", acct.Code, acct.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new account name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func newAccountDeactivateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <code>",
		Short: "Stop an account from taking new postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			acct, err := a.AccountByCode(args[0])
			if err != nil {
				return err
			}
			acct, err = a.DeactivateAccount(cmd.Context(), acct.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %s %s\n", acct.Code, acct.Name)
			return nil
		},
	}
}
