package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Inspect or clear the failed PIN counter",
}

var lockStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the failed PIN attempts of the owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer s.close()

		failed, err := s.lock.LoadFailedAttempts(cmd.Context(), s.owner)
		if err != nil {
			return err
		}
		state := "unlocked"
		if failed >= s.cfg.PINMaxAttempts {
			state = "blocked"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d failed attempts (%s)\n", s.owner, failed, s.cfg.PINMaxAttempts, state)
		return nil
	},
}

var lockResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the failed PIN counter so the lock accepts the PIN again",
	Long: `Clears the stored counter. A running server keeps its own copy until
restart, use POST /api/v1/lock/reset while it is running.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.lock.SaveFailedAttempts(cmd.Context(), s.owner, 0); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PIN lock of %s reset\n", s.owner)
		return nil
	},
}

func init() {
	lockCmd.AddCommand(lockStatusCmd, lockResetCmd)
	rootCmd.AddCommand(lockCmd)
}
