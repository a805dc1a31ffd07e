package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or restore register backups",
}

var backupExportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write the register as a backup document",
	Example: `  cassactl backup export --out cassa_backup.json`,
	RunE:    runBackupExport,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the register with a backup document",
	Long: `Restores a backup written by this application. Documents of version 6
and older are converted; their invoices are loaded with the legacy payment
schema and can be migrated afterwards with "cassactl invoices migrate".`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupRestoreCmd)

	backupExportCmd.Flags().String("out", "", "Output file (default: stdout)")
}

func runBackupExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	doc, err := services.NewBackupService(s.store).Export(ctx, s.owner)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
		return err
	}
	if err := os.WriteFile(out, raw, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Backup of %s written to %s (%d entries)\n", s.owner, out, len(doc.Ledger))
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	result, err := services.NewBackupService(s.store).Restore(ctx, s.owner, raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored version %d backup: %d entries, %d invoices (%d legacy), %d advances, %d rows skipped. Balance %s\n",
		result.SourceVersion, result.Entries, result.Invoices, result.LegacyInvoices, result.Advances, result.SkippedRows, result.Balance.StringFixed(2))
	return nil
}
