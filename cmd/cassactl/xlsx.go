package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/spf13/cobra"
)

var xlsxCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Spreadsheet template, preview, import and export",
}

var xlsxTemplateCmd = &cobra.Command{
	Use:   "template <out.xlsx>",
	Short: "Write the import template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := services.NewSpreadsheetService(nil).Template(cmd.Context())
		if err != nil {
			return err
		}
		return os.WriteFile(args[0], raw, 0o644)
	},
}

var xlsxPreviewCmd = &cobra.Command{
	Use:   "preview <file.xlsx>",
	Short: "Show the rows an import would apply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		preview, err := services.NewSpreadsheetService(nil).Preview(cmd.Context(), f)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROW\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
		for _, r := range preview.Rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Row, r.Date.Display(), r.Category, r.Amount.StringFixed(2), r.Description)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		for _, sk := range preview.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "skipped row %d: %s\n", sk.Row, sk.Reason)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s layout, sheet %q: in %s, out %s, net %s\n",
			preview.Format, preview.Sheet, preview.TotalIn.StringFixed(2), preview.TotalOut.StringFixed(2), preview.NetBalance.StringFixed(2))
		return nil
	},
}

var xlsxImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Append the rows of a workbook to the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		s, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer s.close()

		result, err := services.NewSpreadsheetService(s.store).Import(ctx, s.owner, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows (%d skipped). Balance %s\n",
			result.Imported, len(result.Skipped), result.Balance.StringFixed(2))
		return nil
	},
}

var xlsxExportCmd = &cobra.Command{
	Use:   "export <out.xlsx>",
	Short: "Write the ledger as a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer s.close()

		raw, err := services.NewSpreadsheetService(s.store).ExportLedger(ctx, s.owner)
		if err != nil {
			return err
		}
		return os.WriteFile(args[0], raw, 0o644)
	},
}

func init() {
	rootCmd.AddCommand(xlsxCmd)
	xlsxCmd.AddCommand(xlsxTemplateCmd, xlsxPreviewCmd, xlsxImportCmd, xlsxExportCmd)
}
