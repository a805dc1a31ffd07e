package main

import (
	"fmt"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Legacy invoice reconciliation",
}

var invoicesReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Allocate supplier cash payments to the legacy invoices",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer s.close()

		result, err := services.NewInvoiceService(s.store, s.cfg.DueSoonDays).Reconcile(ctx, s.owner)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %d legacy invoices: %s allocated, %s unattributed\n",
			result.LegacyInvoices, result.CashAllocated.StringFixed(2), result.Unattributed.StringFixed(2))
		return nil
	},
}

var invoicesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Reconcile once more and convert legacy invoices to the paid flag",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer s.close()

		result, err := services.NewInvoiceService(s.store, s.cfg.DueSoonDays).MigrateLegacy(ctx, s.owner)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d legacy invoices\n", result.Migrated)
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [YYYY-MM-DD]",
	Short: "Print the current balance or the balance at the end of a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer s.close()

		ledger := services.NewLedgerService(s.store)
		if len(args) == 0 {
			resp, err := ledger.GetBalance(ctx, s.owner)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Balance.StringFixed(2))
			return nil
		}

		day, err := domain.ParseDate(args[0])
		if err != nil {
			return err
		}
		resp, err := ledger.BalanceAtDate(ctx, s.owner, day)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", day.Display(), resp.Balance.StringFixed(2))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invoicesCmd, balanceCmd)
	invoicesCmd.AddCommand(invoicesReconcileCmd, invoicesMigrateCmd)
}
